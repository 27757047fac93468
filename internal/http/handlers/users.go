package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bootcamper/internal/http/middleware"
	"bootcamper/internal/services"
)

// UserHandler is the admin account CRUD surface. The router additionally
// gates these routes on the admin role.
type UserHandler struct {
	Svc *services.UserService
}

func (h *UserHandler) List(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	page, err := h.Svc.List(c.Request.Context(), p, c.Request.URL.Query())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, page)
}

func (h *UserHandler) Get(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	u, err := h.Svc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

func (h *UserHandler) Create(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var in services.UserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), p, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var patch map[string]interface{}
	if !BindJSONOrError(c, &patch) {
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), p, c.Param("id"), patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	if err := h.Svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}
