package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Domenick1991/carrental/internal/service/invoice"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	service invoice.InvoiceUseCase
}

type invoiceLine struct {
	Description string `json:"description"`
	Days        int    `json:"days"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

type invoiceSummaryResponse struct {
	InvoiceNumber      string        `json:"invoiceNumber"`
	BookingID          int64         `json:"bookingId"`
	ConfirmationNumber string        `json:"confirmationNumber"`
	Days               int           `json:"days"`
	Lines              []invoiceLine `json:"lines"`
	RentalSubtotal     string        `json:"rentalSubtotal"`
	AddonsTotal        string        `json:"addonsTotal"`
	Subtotal           string        `json:"subtotal"`
	Tax                string        `json:"tax"`
	GrandTotal         string        `json:"grandTotal"`
}

type emailInvoiceRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}

func NewInvoiceHandler(service invoice.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

func (h *InvoiceHandler) Register(router *gin.RouterGroup) {
	router.GET("/:bookingId", h.download)
	router.GET("/:bookingId/summary", h.summary)
	router.POST("/:bookingId/email", h.email)
}

func (h *InvoiceHandler) download(c *gin.Context) {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return
	}
	doc, err := h.service.Render(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=invoice_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", doc.PDF)
}

func (h *InvoiceHandler) summary(c *gin.Context) {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return
	}
	st, err := h.service.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(st))
}

// email accepts the request immediately. Delivery outcome is only visible
// in logs, metrics and the delivery log.
func (h *InvoiceHandler) email(c *gin.Context) {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return
	}
	var req emailInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.QueueInvoiceEmail(c.Request.Context(), id, req.To)
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "bookingId": id})
}

func toSummaryResponse(st *invoice.Statement) invoiceSummaryResponse {
	b := st.Breakdown
	resp := invoiceSummaryResponse{
		InvoiceNumber:  st.Number,
		Days:           b.Days,
		Lines:          make([]invoiceLine, 0, len(b.Lines)),
		RentalSubtotal: b.RentalSubtotal.StringFixed(2),
		AddonsTotal:    b.AddonsTotal.StringFixed(2),
		Subtotal:       b.Subtotal.StringFixed(2),
		Tax:            b.Tax.StringFixed(2),
		GrandTotal:     b.GrandTotal.StringFixed(2),
	}
	if st.Booking != nil {
		resp.BookingID = st.Booking.ID
		resp.ConfirmationNumber = st.Booking.ConfirmationNumber
	}
	for _, l := range b.Lines {
		resp.Lines = append(resp.Lines, invoiceLine{
			Description: l.Description,
			Days:        l.Days,
			Rate:        l.Rate.StringFixed(2),
			Amount:      l.Amount.StringFixed(2),
		})
	}
	return resp
}
