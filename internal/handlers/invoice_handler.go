package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"invoicing-backend/internal/mail"
	"invoicing-backend/internal/models"
	service "invoicing-backend/internal/services/invoice"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const downloadTTL = 15 * time.Minute

type InvoiceHandler struct {
	service *service.Service
	mailer  mail.Mailer
}

func NewInvoiceHandler(s *service.Service, m mail.Mailer) *InvoiceHandler {
	return &InvoiceHandler{service: s, mailer: m}
}

func (h *InvoiceHandler) CreateDraft(c *gin.Context) {
	var payload service.DraftInput
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	inv, err := h.service.CreateDraft(c.Request.Context(), companyID(c), payload)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "draft created", "invoice": inv})
}

func (h *InvoiceHandler) UpdateDraft(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var payload service.DraftInput
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	inv, err := h.service.UpdateDraft(c.Request.Context(), companyID(c), id, payload)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft updated", "invoice": inv})
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.service.Get(c.Request.Context(), companyID(c), id)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": inv})
}

func (h *InvoiceHandler) List(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	invoices, err := h.service.List(c.Request.Context(), companyID(c), c.Query("status"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": invoices, "count": len(invoices)})
}

func (h *InvoiceHandler) DeleteDraft(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteDraft(c.Request.Context(), companyID(c), id); err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft deleted"})
}

// Finalize runs the full draft -> created pipeline and returns the
// issued invoice together with download links for both artifacts.
func (h *InvoiceHandler) Finalize(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.Finalize(c.Request.Context(), companyID(c), id)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	pdfURL, xmlURL, err := h.service.DocumentURLs(c.Request.Context(), inv, downloadTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "invoice finalized",
		"invoice": inv,
		"pdf_url": pdfURL,
		"xml_url": xmlURL,
	})
}

func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	storno, original, err := h.service.Cancel(c.Request.Context(), companyID(c), id)
	if err != nil {
		respondCancelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              "cancellation invoice issued",
		"cancellation_invoice": storno,
		"original_invoice":     original,
	})
}

func (h *InvoiceHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	inv, err := h.service.SetStatus(c.Request.Context(), companyID(c), id, payload.Status)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated", "invoice": inv})
}

// Documents returns fresh presigned links for an issued invoice.
func (h *InvoiceHandler) Documents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.service.Get(c.Request.Context(), companyID(c), id)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	pdfURL, xmlURL, err := h.service.DocumentURLs(c.Request.Context(), inv, downloadTTL)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pdf_url": pdfURL, "xml_url": xmlURL})
}

// Send mails both stored artifacts to the recipient and marks a freshly
// created invoice as sent.
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.service.Get(c.Request.Context(), companyID(c), id)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	if inv.Number == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "invoice has no documents yet, finalize it first"})
		return
	}

	to := inv.RecipientEmail
	if to == "" {
		to = inv.BuyerSnapshot.Data().ContactEmail
	}
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipient email on invoice or buyer"})
		return
	}

	pdfData, xmlData, err := h.service.FetchDocuments(c.Request.Context(), inv)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	number := inv.FormattedNumber()
	subject := fmt.Sprintf("Rechnung %s", number)
	if inv.Kind == models.KindCancellation {
		subject = fmt.Sprintf("Stornorechnung %s", number)
	}
	msg := mail.Message{
		From:     inv.SellerSnapshot.Data().ContactEmail,
		To:       to,
		Subject:  subject,
		TextBody: fmt.Sprintf("Anbei erhalten Sie das Dokument %s.", number),
		Attachments: []mail.Attachment{
			{Filename: number + ".pdf", ContentType: "application/pdf", Data: pdfData},
			{Filename: number + ".xml", ContentType: "application/xml", Data: xmlData},
		},
	}
	if err := h.mailer.Send(c.Request.Context(), msg); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "mail delivery failed: " + err.Error()})
		return
	}

	if inv.Status == models.StatusCreated {
		if inv, err = h.service.SetStatus(c.Request.Context(), companyID(c), id, models.StatusSent); err != nil {
			log.Warn().Str("invoice_id", id.String()).Err(err).Msg("sent but status update failed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "invoice sent", "invoice": inv})
}

// respondCancelError maps cancellation errors: every ineligibility
// (draft, already cancelled, is a cancellation, cancellation exists)
// answers 400, everything else falls through to the shared mapping.
func respondCancelError(c *gin.Context, err error) {
	var cErr *service.CancellationExistsError
	if errors.As(err, &cErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           err.Error(),
			"existing_number": cErr.ExistingNumber,
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrDraftNotCancellable),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrIsCancellation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		respondInvoiceError(c, err)
	}
}

// respondInvoiceError maps service errors onto the HTTP surface:
// validation problems are 400 with the full error list, state machine
// conflicts are 409, unknown ids 404, everything downstream 500.
func respondInvoiceError(c *gin.Context, err error) {
	var vErr *service.ValidationFailedError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "validation failed",
			"validation": vErr.Result,
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrMissingParty),
		errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotDraft),
		errors.Is(err, service.ErrAlreadyFinalized),
		errors.Is(err, service.ErrImmutable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("invoice operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
