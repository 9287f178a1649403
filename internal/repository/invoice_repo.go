package repository

import (
	"context"

	"invoicing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Expose DB if needed
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

// GetByID fetches one invoice with its line items, scoped to the tenant.
func (r *InvoiceRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&inv, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// Save persists the invoice including nested items.
func (r *InvoiceRepository) Save(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(inv).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id).Error
}

// ReplaceItems swaps a draft's line items inside one transaction.
func (r *InvoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []models.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].InvoiceID = invoiceID
		}
		return tx.Create(&items).Error
	})
}

// SaveFinalized writes all finalization fields in one update guarded
// by status = draft. Zero rows affected means another caller finalized
// (or otherwise moved) the invoice first; nothing was written.
func (r *InvoiceRepository) SaveFinalized(ctx context.Context, inv *models.Invoice) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ? AND status = ?", inv.ID, models.StatusDraft).
		Updates(map[string]interface{}{
			"status":          inv.Status,
			"number":          inv.Number,
			"invoice_date":    inv.InvoiceDate,
			"due_date":        inv.DueDate,
			"seller_snapshot": inv.SellerSnapshot,
			"buyer_snapshot":  inv.BuyerSnapshot,
			"subtotal":        inv.Subtotal,
			"vat_amount":      inv.VatAmount,
			"total":           inv.Total,
			"pdf_key":         inv.PDFKey,
			"xml_key":         inv.XMLKey,
			"finalized_at":    inv.FinalizedAt,
		})
	return res.RowsAffected, res.Error
}

// UpdateStatusFrom performs a compare-and-swap status transition.
// Returns the number of rows changed: 0 means the invoice was not in
// the expected state and nothing happened.
func (r *InvoiceRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// FindCancellationOf returns the cancellation invoice linked to the
// given original, or gorm.ErrRecordNotFound.
func (r *InvoiceRepository) FindCancellationOf(ctx context.Context, originalID uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.WithContext(ctx).First(&inv, "cancelled_invoice_id = ?", originalID).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// List returns the tenant's invoices, newest first, with optional
// status filter.
func (r *InvoiceRepository) List(ctx context.Context, companyID uuid.UUID, status string, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	q := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&invoices).Error
	return invoices, err
}
