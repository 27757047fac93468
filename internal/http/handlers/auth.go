package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bootcamper/internal/domain/models"
	"bootcamper/internal/http/middleware"
	"bootcamper/internal/services"
)

// AuthHandler serves registration, sessions and the password lifecycle.
// Session tokens go out both in the body and as an httpOnly cookie.
type AuthHandler struct {
	Svc          *services.AuthService
	CookieExpire time.Duration
	CookieSecure bool
}

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, tok, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.sendToken(c, http.StatusCreated, u, tok)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in credentialsInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, tok, err := h.Svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, u, tok)
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; the server keeps no session state.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", h.CookieSecure, true)
	respondData(c, http.StatusOK, gin.H{})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	u, err := h.Svc.Me(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.Svc.UpdateDetails(c.Request.Context(), p, in.Name, in.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !BindJSONOrError(c, &in) {
		return
	}
	tok, err := h.Svc.UpdatePassword(c.Request.Context(), p, in.CurrentPassword, in.NewPassword)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.setCookie(c, tok)
	respondData(c, http.StatusOK, gin.H{"token": tok})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if !BindJSONOrError(c, &in) {
		return
	}
	base := "https://" + c.Request.Host
	if c.Request.TLS == nil {
		base = "http://" + c.Request.Host
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), in.Email, base); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "email sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in struct {
		Password string `json:"password"`
	}
	if !BindJSONOrError(c, &in) {
		return
	}
	tok, err := h.Svc.ResetPassword(c.Request.Context(), c.Param("resettoken"), in.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.setCookie(c, tok)
	respondData(c, http.StatusOK, gin.H{"token": tok})
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, u models.User, tok string) {
	h.setCookie(c, tok)
	c.JSON(status, gin.H{
		"success": true,
		"token":   tok,
		"data":    u,
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, tok string) {
	maxAge := int(h.CookieExpire / time.Second)
	c.SetCookie("token", tok, maxAge, "/", "", h.CookieSecure, true)
}
