package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/importer"
	"github.com/Domenick1991/carrental/internal/service/rates"
	"github.com/gin-gonic/gin"
)

type RatesHandler struct {
	service  rates.RatesUseCase
	importer importer.ImportUseCase
}

func NewRatesHandler(service rates.RatesUseCase, importer importer.ImportUseCase) *RatesHandler {
	return &RatesHandler{service: service, importer: importer}
}

func (h *RatesHandler) Register(router *gin.RouterGroup) {
	router.GET("/car-types", h.listCarTypes)
	router.GET("/car-types/:id", h.getCarType)
	router.GET("/addons", h.listAddOns)
	router.POST("/rates/upload", RequireRoles(domain.RoleAdmin), h.upload)
}

func (h *RatesHandler) listCarTypes(c *gin.Context) {
	types, err := h.service.ListCarTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *RatesHandler) getCarType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ct, err := h.service.RatesFor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

func (h *RatesHandler) listAddOns(c *gin.Context) {
	addons, err := h.service.ListAddOns(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addons)
}

func (h *RatesHandler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .xlsx files are accepted"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	res, err := h.importer.ImportRates(c.Request.Context(), f)
	if err != nil {
		if res != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import aborted", "result": res})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
