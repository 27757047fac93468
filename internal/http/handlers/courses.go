package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bootcamper/internal/domain/models"
	"bootcamper/internal/http/middleware"
	"bootcamper/internal/services"
)

type CourseHandler struct {
	Svc *services.CourseService
}

func (h *CourseHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, page)
}

// ListByBootcamp serves the nested GET /bootcamps/:id/courses route.
func (h *CourseHandler) ListByBootcamp(c *gin.Context) {
	items, err := h.Svc.ListByBootcamp(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondCollection(c, items)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var in models.Course
	if !BindJSONOrError(c, &in) {
		return
	}
	course, err := h.Svc.Create(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var patch map[string]interface{}
	if !BindJSONOrError(c, &patch) {
		return
	}
	course, err := h.Svc.Update(c.Request.Context(), p, c.Param("id"), patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	if err := h.Svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}
