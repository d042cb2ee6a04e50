package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
}

func NewCatalogHandler(service catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("/hubs", h.listHubs)
	router.GET("/hubs/:id", h.getHub)
	router.GET("/hubs/:id/cars", h.listCars)
	router.POST("/customers", h.addCustomer)
	router.GET("/customers", h.findCustomer)
}

func (h *CatalogHandler) listHubs(c *gin.Context) {
	hubs, err := h.service.ListHubs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hubs)
}

func (h *CatalogHandler) getHub(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	hub, err := h.service.GetHub(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hub)
}

func (h *CatalogHandler) listCars(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var carTypeID int64
	if raw := c.Query("carTypeId"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid carTypeId"})
			return
		}
		carTypeID = v
	}

	cars, err := h.service.ListAvailableCars(c.Request.Context(), id, carTypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *CatalogHandler) addCustomer(c *gin.Context) {
	var customer domain.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer.ID = 0

	if err := h.service.AddCustomer(c.Request.Context(), &customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CatalogHandler) findCustomer(c *gin.Context) {
	var (
		customer *domain.Customer
		err      error
	)
	switch {
	case c.Query("email") != "":
		customer, err = h.service.FindCustomerByEmail(c.Request.Context(), c.Query("email"))
	case c.Query("membershipId") != "":
		customer, err = h.service.FindCustomerByMembershipID(c.Request.Context(), c.Query("membershipId"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or membershipId is required"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
