package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	CarID       int64   `json:"carId"`
	CustomerID  int64   `json:"customerId"`
	PickupHubID int64   `json:"pickupHubId"`
	ReturnHubID int64   `json:"returnHubId"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Email       string  `json:"email"`
	AddOnIDs    []int64 `json:"addOnIds"`
}

type returnRequest struct {
	BookingID  int64  `json:"bookingId"`
	ReturnDate string `json:"returnDate"`
}

type addOnLine struct {
	Name      string `json:"addOnName"`
	DailyRate string `json:"addOnDailyRate"`
}

type bookingResponse struct {
	BookingID          int64       `json:"bookingId"`
	ConfirmationNumber string      `json:"confirmationNumber"`
	Status             string      `json:"bookingStatus"`
	CustomerName       string      `json:"customerName"`
	Email              string      `json:"email"`
	CarName            string      `json:"carName"`
	NumberPlate        string      `json:"numberPlate,omitempty"`
	PickupHub          string      `json:"pickupHub,omitempty"`
	ReturnHub          string      `json:"returnHub,omitempty"`
	StartDate          string      `json:"startDate"`
	EndDate            string      `json:"endDate"`
	ReturnedAt         string      `json:"returnedAt,omitempty"`
	DailyRate          string      `json:"dailyRate"`
	AddOns             []addOnLine `json:"addOns,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	staff := RequireRoles(domain.RoleStaff, domain.RoleAdmin)

	router.POST("", h.create)
	router.GET("", h.listByEmail)
	router.GET("/:id", h.get)
	router.GET("/confirmation/:number", h.getByConfirmation)
	router.POST("/:id/handover", staff, h.handover)
	router.POST("/return", staff, h.returnCar)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		CarID:       req.CarID,
		CustomerID:  req.CustomerID,
		PickupHubID: req.PickupHubID,
		ReturnHubID: req.ReturnHubID,
		StartDate:   start,
		EndDate:     end,
		Email:       req.Email,
		AddOnIDs:    req.AddOnIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) getByConfirmation(c *gin.Context) {
	b, err := h.service.GetByConfirmationNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) listByEmail(c *gin.Context) {
	bookings, err := h.service.ListByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) handover(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Handover(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) returnCar(c *gin.Context) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := booking.ReturnInput{BookingID: req.BookingID}
	if req.ReturnDate != "" {
		d, err := parseDate(req.ReturnDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid returnDate"})
			return
		}
		input.ReturnDate = &d
	}

	b, err := h.service.Return(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		BookingID:          b.ID,
		ConfirmationNumber: b.ConfirmationNumber,
		Status:             string(b.Status),
		CustomerName:       b.CustomerName(),
		Email:              b.Email,
		CarName:            b.CarName,
		StartDate:          b.StartDate.Format(dateLayout),
		EndDate:            b.EndDate.Format(dateLayout),
		DailyRate:          b.DailyRate.StringFixed(2),
	}
	if b.Car != nil {
		resp.NumberPlate = b.Car.NumberPlate
	}
	if b.PickupHub != nil {
		resp.PickupHub = b.PickupHub.Name
	}
	if b.ReturnHub != nil {
		resp.ReturnHub = b.ReturnHub.Name
	}
	if b.ReturnedAt != nil {
		resp.ReturnedAt = b.ReturnedAt.Format(dateLayout)
	}
	for _, a := range b.AddOns {
		resp.AddOns = append(resp.AddOns, addOnLine{Name: a.Name, DailyRate: a.DailyRate.StringFixed(2)})
	}
	return resp
}
