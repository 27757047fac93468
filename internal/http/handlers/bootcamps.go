package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bootcamper/internal/domain/models"
	"bootcamper/internal/http/middleware"
	"bootcamper/internal/services"
)

type BootcampHandler struct {
	Svc     *services.BootcampService
	Reports services.ReportService
}

func (h *BootcampHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, page)
}

func (h *BootcampHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, b)
}

func (h *BootcampHandler) Create(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var in models.Bootcamp
	if !BindJSONOrError(c, &in) {
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), p, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, b)
}

func (h *BootcampHandler) Update(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var patch map[string]interface{}
	if !BindJSONOrError(c, &patch) {
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), p, c.Param("id"), patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, b)
}

func (h *BootcampHandler) Delete(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	if err := h.Svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// WithinRadius handles GET /bootcamps/radius/:zipcode/:distance where
// distance is in miles.
func (h *BootcampHandler) WithinRadius(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "distance must be a number", err)
		return
	}
	items, err := h.Svc.WithinRadius(c.Request.Context(), c.Param("zipcode"), distance)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondCollection(c, items)
}

func (h *BootcampHandler) UploadPhoto(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "please upload a file", err)
		return
	}
	name, err := h.Svc.UploadPhoto(c.Request.Context(), p, c.Param("id"), fh)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"photo": name})
}

// Report streams the PDF summary sheet for one bootcamp.
func (h *BootcampHandler) Report(c *gin.Context) {
	pdf, filename, err := h.Reports.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
