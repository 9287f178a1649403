package handler

import (
	"net/http"

	"invoicing-backend/internal/models"
	"invoicing-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companies *repository.CompanyRepository
}

func NewCompanyHandler(companies *repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.companies.GetByID(c.Request.Context(), companyID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

// Save upserts the tenant profile. Changes only affect future
// finalizations; issued invoices keep their frozen snapshots.
func (h *CompanyHandler) Save(c *gin.Context) {
	var payload models.Company
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	payload.ID = companyID(c)
	if payload.InvoicePrefix == "" {
		payload.InvoicePrefix = "INV"
	}
	if payload.CancellationPrefix == "" {
		payload.CancellationPrefix = "ST"
	}

	if err := h.companies.Save(c.Request.Context(), &payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "company saved", "company": payload})
}
