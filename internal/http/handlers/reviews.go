package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bootcamper/internal/domain/models"
	"bootcamper/internal/http/middleware"
	"bootcamper/internal/services"
)

type ReviewHandler struct {
	Svc *services.ReviewService
}

func (h *ReviewHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, page)
}

// ListByBootcamp serves the nested GET /bootcamps/:id/reviews route.
func (h *ReviewHandler) ListByBootcamp(c *gin.Context) {
	items, err := h.Svc.ListByBootcamp(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondCollection(c, items)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, review)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var in models.Review
	if !BindJSONOrError(c, &in) {
		return
	}
	review, err := h.Svc.Create(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var patch map[string]interface{}
	if !BindJSONOrError(c, &patch) {
		return
	}
	review, err := h.Svc.Update(c.Request.Context(), p, c.Param("id"), patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	if err := h.Svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}
