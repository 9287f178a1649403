package invoice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"invoicing-backend/internal/models"
	"invoicing-backend/internal/services/document"
	"invoicing-backend/internal/services/numbering"
	"invoicing-backend/internal/services/party"
	"invoicing-backend/internal/services/validation"
	"invoicing-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceStore handles invoice persistence. Placed here to avoid
// import cycles between store and service.
type InvoiceStore interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error)
	Create(ctx context.Context, inv *models.Invoice) error
	Save(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []models.LineItem) error
	SaveFinalized(ctx context.Context, inv *models.Invoice) (int64, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to string) (int64, error)
	FindCancellationOf(ctx context.Context, originalID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, status string, limit int) ([]models.Invoice, error)
}

type CompanyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type ContactStore interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Contact, error)
}

type Allocator interface {
	Allocate(ctx context.Context, identity numbering.Identity, documentClass, prefix string) (string, error)
}

type PartyResolver interface {
	Resolve(ctx context.Context, ref party.Ref, company *models.Company) (models.PartySnapshot, error)
}

type Renderer interface {
	Render(inv *models.Invoice, opts document.RenderOptions) ([]byte, error)
}

type Serializer interface {
	Serialize(inv *models.Invoice, opts document.SerializeOptions) ([]byte, error)
}

type Embedder interface {
	Embed(visual, xmlData []byte) ([]byte, error)
}

// Service orchestrates the invoice lifecycle: draft CRUD, the
// finalization state machine and cancellation.
type Service struct {
	invoices   InvoiceStore
	companies  CompanyStore
	contacts   ContactStore
	resolver   PartyResolver
	validator  *validation.Validator
	allocator  Allocator
	renderer   Renderer
	serializer Serializer
	embedder   Embedder
	store      storage.ObjectStorage
}

func NewService(
	invoices InvoiceStore,
	companies CompanyStore,
	contacts ContactStore,
	resolver PartyResolver,
	validator *validation.Validator,
	allocator Allocator,
	renderer Renderer,
	serializer Serializer,
	embedder Embedder,
	store storage.ObjectStorage,
) *Service {
	return &Service{
		invoices:   invoices,
		companies:  companies,
		contacts:   contacts,
		resolver:   resolver,
		validator:  validator,
		allocator:  allocator,
		renderer:   renderer,
		serializer: serializer,
		embedder:   embedder,
		store:      store,
	}
}

// LineItemInput is one draft position as supplied by the caller. The
// system accepts the VAT rate as given and trusts the caller.
type LineItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

type DraftInput struct {
	InvoiceDate     *time.Time      `json:"invoice_date"`
	DueDate         *time.Time      `json:"due_date"`
	SellerIsSelf    bool            `json:"seller_is_self"`
	BuyerIsSelf     bool            `json:"buyer_is_self"`
	SellerContactID *uuid.UUID      `json:"seller_contact_id"`
	BuyerContactID  *uuid.UUID      `json:"buyer_contact_id"`
	RecipientEmail  string          `json:"recipient_email"`
	Language        string          `json:"language"`
	HeaderText      string          `json:"header_text"`
	FooterText      string          `json:"footer_text"`
	Items           []LineItemInput `json:"items"`
}

// CreateDraft stores a new mutable draft with recomputed totals.
func (s *Service) CreateDraft(ctx context.Context, companyID uuid.UUID, in DraftInput) (*models.Invoice, error) {
	if err := checkPartyRefs(in); err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		ID:        uuid.New(),
		CompanyID: companyID,
		Kind:      models.KindInvoice,
		Status:    models.StatusDraft,
	}
	applyDraftInput(inv, in)

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	return inv, nil
}

// UpdateDraft replaces a draft's content. Drafts re-snapshot on
// demand; finalized invoices reject every content edit.
func (s *Service) UpdateDraft(ctx context.Context, companyID, id uuid.UUID, in DraftInput) (*models.Invoice, error) {
	inv, err := s.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		return nil, ErrImmutable
	}
	if err := checkPartyRefs(in); err != nil {
		return nil, err
	}

	applyDraftInput(inv, in)
	if err := s.invoices.ReplaceItems(ctx, inv.ID, inv.Items); err != nil {
		return nil, fmt.Errorf("replace items: %w", err)
	}
	items := inv.Items
	inv.Items = nil
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("update draft: %w", err)
	}
	inv.Items = items
	return inv, nil
}

func (s *Service) Get(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	return s.get(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID, status string, limit int) ([]models.Invoice, error) {
	return s.invoices.List(ctx, companyID, status, limit)
}

// DeleteDraft removes a draft. Issued invoices are never deleted,
// only cancelled.
func (s *Service) DeleteDraft(ctx context.Context, companyID, id uuid.UUID) error {
	inv, err := s.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !inv.IsDraft() {
		return ErrImmutable
	}
	return s.invoices.Delete(ctx, inv.ID)
}

// Finalize runs the draft -> created state machine: resolve party
// snapshots, validate, allocate the number, generate both documents,
// embed, store, then advance the status. The status only moves once
// both artifacts are durably stored, so no invoice ever holds a legal
// number without its compliant documents.
func (s *Service) Finalize(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	inv, err := s.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		if inv.Number != nil {
			return nil, ErrAlreadyFinalized
		}
		return nil, ErrNotDraft
	}

	if (!inv.SellerIsSelf && inv.SellerContactID == nil) || (!inv.BuyerIsSelf && inv.BuyerContactID == nil) {
		return nil, ErrMissingParty
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company profile: %w", err)
	}

	sellerSnap, err := s.resolver.Resolve(ctx, sellerRef(inv), company)
	if err != nil {
		return nil, fmt.Errorf("resolve seller: %w", err)
	}
	buyerSnap, err := s.resolver.Resolve(ctx, buyerRef(inv), company)
	if err != nil {
		return nil, fmt.Errorf("resolve buyer: %w", err)
	}

	identity, prefix, _, err := s.issuingIdentity(ctx, inv, company)
	if err != nil {
		return nil, err
	}

	result := s.validator.Validate(inv, sellerSnap, buyerSnap, prefix)
	for _, w := range result.Warnings {
		log.Warn().Str("invoice_id", inv.ID.String()).Str("field", w.Field).Msg(w.Message)
	}
	if !result.Valid {
		return nil, &ValidationFailedError{Result: result}
	}

	number, err := s.allocator.Allocate(ctx, identity, models.KindInvoice, prefix)
	if err != nil {
		return nil, &NumberingError{Err: err}
	}

	now := time.Now().UTC()
	work := *inv
	work.Number = &number
	work.Status = models.StatusCreated
	work.SellerSnapshot = datatypes.NewJSONType(sellerSnap)
	work.BuyerSnapshot = datatypes.NewJSONType(buyerSnap)
	work.FinalizedAt = &now

	hybrid, xmlData, err := s.generate(&work,
		document.RenderOptions{Logo: company.Logo},
		document.SerializeOptions{})
	if err != nil {
		return nil, err
	}

	work.PDFKey = objectKey(companyID, work.ID, "pdf")
	work.XMLKey = objectKey(companyID, work.ID, "xml")
	if err := s.upload(ctx, &work, hybrid, xmlData); err != nil {
		return nil, err
	}

	rows, err := s.invoices.SaveFinalized(ctx, &work)
	if err != nil || rows == 0 {
		// Documents exist but the record could not advance; remove
		// them so the draft stays the single source of truth.
		s.removeObjects(ctx, work.PDFKey, work.XMLKey)
		if err != nil {
			return nil, &StorageError{Err: err}
		}
		return nil, ErrNotDraft
	}

	log.Info().
		Str("invoice_id", work.ID.String()).
		Str("number", number).
		Msg("invoice finalized")
	return &work, nil
}

// Cancel derives a negated, linked counter-invoice from a finalized
// invoice and marks the original cancelled.
func (s *Service) Cancel(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, *models.Invoice, error) {
	orig, err := s.get(ctx, companyID, id)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case orig.IsDraft():
		return nil, nil, ErrDraftNotCancellable
	case orig.Status == models.StatusCancelled:
		return nil, nil, ErrAlreadyCancelled
	case orig.Kind == models.KindCancellation:
		return nil, nil, ErrIsCancellation
	}
	if existing, err := s.invoices.FindCancellationOf(ctx, orig.ID); err == nil {
		return nil, nil, &CancellationExistsError{ExistingNumber: existing.FormattedNumber()}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("check existing cancellation: %w", err)
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("load company profile: %w", err)
	}

	// The cancellation draws from the cancellation sequence of the
	// same issuing identity as the original.
	identity, _, stornoPrefix, err := s.issuingIdentity(ctx, orig, company)
	if err != nil {
		return nil, nil, err
	}
	number, err := s.allocator.Allocate(ctx, identity, models.KindCancellation, stornoPrefix)
	if err != nil {
		return nil, nil, &NumberingError{Err: err}
	}

	now := time.Now().UTC()
	storno := buildCancellation(orig, number, now)

	if err := s.invoices.Create(ctx, storno); err != nil {
		return nil, nil, fmt.Errorf("create cancellation: %w", err)
	}

	hybrid, xmlData, err := s.generate(storno,
		document.RenderOptions{IsCancellation: true, OriginalNumber: orig.FormattedNumber(), Logo: company.Logo},
		document.SerializeOptions{IsCancellation: true, OriginalNumber: orig.FormattedNumber()})
	if err != nil {
		s.compensateCancellation(ctx, storno)
		return nil, nil, err
	}

	storno.PDFKey = objectKey(companyID, storno.ID, "pdf")
	storno.XMLKey = objectKey(companyID, storno.ID, "xml")
	if err := s.upload(ctx, storno, hybrid, xmlData); err != nil {
		s.compensateCancellation(ctx, storno)
		return nil, nil, err
	}

	items := storno.Items
	storno.Items = nil
	if err := s.invoices.Save(ctx, storno); err != nil {
		s.removeObjects(ctx, storno.PDFKey, storno.XMLKey)
		s.compensateCancellation(ctx, storno)
		return nil, nil, &StorageError{Err: err}
	}
	storno.Items = items

	// The cancellation is the source of truth from here on. A failed
	// status flip on the original is a recoverable inconsistency, not
	// a correctness violation.
	if rows, err := s.invoices.UpdateStatusFrom(ctx, orig.ID, orig.Status, models.StatusCancelled); err != nil || rows == 0 {
		log.Warn().
			Str("invoice_id", orig.ID.String()).
			Err(err).
			Msg("cancellation issued but original status update failed")
	} else {
		orig.Status = models.StatusCancelled
	}

	log.Info().
		Str("cancellation_id", storno.ID.String()).
		Str("number", number).
		Str("cancels", orig.FormattedNumber()).
		Msg("cancellation invoice issued")
	return storno, orig, nil
}

// SetStatus applies a manual delivery-state change. Sent, reminded and
// paid are freely re-orderable; everything else is off limits.
func (s *Service) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (*models.Invoice, error) {
	switch status {
	case models.StatusSent, models.StatusReminded, models.StatusPaid:
	default:
		return nil, ErrInvalidStatus
	}
	inv, err := s.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case models.StatusCreated, models.StatusSent, models.StatusReminded, models.StatusPaid:
	default:
		return nil, ErrInvalidStatus
	}
	if _, err := s.invoices.UpdateStatusFrom(ctx, inv.ID, inv.Status, status); err != nil {
		return nil, err
	}
	inv.Status = status
	return inv, nil
}

// DocumentURLs presigns download links for the two stored artifacts.
func (s *Service) DocumentURLs(ctx context.Context, inv *models.Invoice, ttl time.Duration) (string, string, error) {
	if inv.PDFKey == "" || inv.XMLKey == "" {
		return "", "", ErrNotDraft
	}
	pdfURL, err := s.store.Presign(ctx, inv.PDFKey, ttl)
	if err != nil {
		return "", "", &StorageError{Err: err}
	}
	xmlURL, err := s.store.Presign(ctx, inv.XMLKey, ttl)
	if err != nil {
		return "", "", &StorageError{Err: err}
	}
	return pdfURL, xmlURL, nil
}

// FetchDocuments loads both stored artifacts, e.g. for mail delivery.
func (s *Service) FetchDocuments(ctx context.Context, inv *models.Invoice) ([]byte, []byte, error) {
	if inv.PDFKey == "" || inv.XMLKey == "" {
		return nil, nil, ErrNotDraft
	}
	pdfData, err := s.store.Get(ctx, inv.PDFKey)
	if err != nil {
		return nil, nil, &StorageError{Err: err}
	}
	xmlData, err := s.store.Get(ctx, inv.XMLKey)
	if err != nil {
		return nil, nil, &StorageError{Err: err}
	}
	return pdfData, xmlData, nil
}

// --- internals ---

func (s *Service) get(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

// generate renders the visual document and serializes the XML twin
// concurrently (both read the same immutable snapshot), then embeds
// the XML into the PDF. Returns (hybrid PDF, XML).
func (s *Service) generate(inv *models.Invoice, rOpts document.RenderOptions, sOpts document.SerializeOptions) ([]byte, []byte, error) {
	var (
		wg        sync.WaitGroup
		pdfBytes  []byte
		xmlBytes  []byte
		renderErr error
		serErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pdfBytes, renderErr = s.renderer.Render(inv, rOpts)
	}()
	go func() {
		defer wg.Done()
		xmlBytes, serErr = s.serializer.Serialize(inv, sOpts)
	}()
	wg.Wait()

	if renderErr != nil {
		return nil, nil, &DocumentError{Stage: "render", Err: renderErr}
	}
	if serErr != nil {
		return nil, nil, &DocumentError{Stage: "serialize", Err: serErr}
	}

	hybrid, err := s.embedder.Embed(pdfBytes, xmlBytes)
	if err != nil {
		return nil, nil, &DocumentError{Stage: "embed", Err: err}
	}
	return hybrid, xmlBytes, nil
}

// upload stores both artifacts; if either write fails the other is
// removed again so no partial document set survives.
func (s *Service) upload(ctx context.Context, inv *models.Invoice, pdfData, xmlData []byte) error {
	if _, err := s.store.Put(ctx, inv.PDFKey, pdfData, "application/pdf"); err != nil {
		return &StorageError{Err: err}
	}
	if _, err := s.store.Put(ctx, inv.XMLKey, xmlData, "application/xml"); err != nil {
		s.removeObjects(ctx, inv.PDFKey)
		return &StorageError{Err: err}
	}
	return nil
}

func (s *Service) removeObjects(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			log.Warn().Str("key", key).Err(err).Msg("compensating object delete failed")
		}
	}
}

// compensateCancellation deletes a half-created cancellation row.
// There is no two-phase commit with the object store, so explicit
// compensation keeps the invariant: never an orphaned cancellation
// without its documents.
func (s *Service) compensateCancellation(ctx context.Context, storno *models.Invoice) {
	if err := s.invoices.Delete(ctx, storno.ID); err != nil {
		log.Error().
			Str("cancellation_id", storno.ID.String()).
			Err(err).
			Msg("compensating cancellation delete failed")
	}
}

// issuingIdentity returns the sequence identity plus the invoice and
// cancellation prefixes of whoever legally issues this invoice.
func (s *Service) issuingIdentity(ctx context.Context, inv *models.Invoice, company *models.Company) (numbering.Identity, string, string, error) {
	if inv.SellerIsSelf {
		return numbering.CompanyIdentity(company.ID), company.InvoicePrefix, company.CancellationPrefix, nil
	}
	if inv.SellerContactID == nil {
		return numbering.Identity{}, "", "", ErrMissingParty
	}
	contact, err := s.contacts.GetByID(ctx, inv.CompanyID, *inv.SellerContactID)
	if err != nil {
		return numbering.Identity{}, "", "", fmt.Errorf("load seller contact: %w", err)
	}
	return numbering.ContactIdentity(contact.ID), contact.InvoicePrefix, contact.CancellationPrefix, nil
}

func sellerRef(inv *models.Invoice) party.Ref {
	if inv.SellerIsSelf {
		return party.Self()
	}
	return party.External(*inv.SellerContactID)
}

func buyerRef(inv *models.Invoice) party.Ref {
	if inv.BuyerIsSelf {
		return party.Self()
	}
	return party.External(*inv.BuyerContactID)
}

func checkPartyRefs(in DraftInput) error {
	if !in.SellerIsSelf && in.SellerContactID == nil {
		return ErrMissingParty
	}
	if !in.BuyerIsSelf && in.BuyerContactID == nil {
		return ErrMissingParty
	}
	return nil
}

func applyDraftInput(inv *models.Invoice, in DraftInput) {
	inv.InvoiceDate = in.InvoiceDate
	inv.DueDate = in.DueDate
	inv.SellerIsSelf = in.SellerIsSelf
	inv.BuyerIsSelf = in.BuyerIsSelf
	inv.SellerContactID = in.SellerContactID
	inv.BuyerContactID = in.BuyerContactID
	inv.RecipientEmail = in.RecipientEmail
	if in.Language != "" {
		inv.Language = in.Language
	}
	inv.HeaderText = in.HeaderText
	inv.FooterText = in.FooterText

	items := make([]models.LineItem, 0, len(in.Items))
	for i, li := range in.Items {
		item := models.LineItem{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			Position:    i,
			Description: li.Description,
			Quantity:    li.Quantity,
			Unit:        li.Unit,
			UnitPrice:   li.UnitPrice,
			VatRate:     li.VatRate,
		}
		item.Recalculate()
		items = append(items, item)
	}
	inv.Items = items
	inv.Subtotal, inv.VatAmount, inv.Total = computeTotals(items)
}

func computeTotals(items []models.LineItem) (subtotal, vat, total decimal.Decimal) {
	subtotal, vat = decimal.Zero, decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
		vat = vat.Add(item.VatAmount)
	}
	return subtotal, vat, subtotal.Add(vat)
}

// buildCancellation copies the original and sign-flips every amount.
// Amounts are negated, never recomputed, so the cancellation is the
// exact inverse regardless of rounding.
func buildCancellation(orig *models.Invoice, number string, now time.Time) *models.Invoice {
	storno := &models.Invoice{
		ID:                 uuid.New(),
		CompanyID:          orig.CompanyID,
		Kind:               models.KindCancellation,
		Status:             models.StatusCreated,
		Number:             &number,
		InvoiceDate:        orig.InvoiceDate,
		DueDate:            orig.DueDate,
		SellerIsSelf:       orig.SellerIsSelf,
		BuyerIsSelf:        orig.BuyerIsSelf,
		SellerContactID:    orig.SellerContactID,
		BuyerContactID:     orig.BuyerContactID,
		SellerSnapshot:     orig.SellerSnapshot,
		BuyerSnapshot:      orig.BuyerSnapshot,
		Subtotal:           orig.Subtotal.Neg(),
		VatAmount:          orig.VatAmount.Neg(),
		Total:              orig.Total.Neg(),
		RecipientEmail:     orig.RecipientEmail,
		Language:           orig.Language,
		HeaderText:         orig.HeaderText,
		FooterText:         orig.FooterText,
		CancelledInvoiceID: &orig.ID,
		FinalizedAt:        &now,
	}
	items := make([]models.LineItem, 0, len(orig.Items))
	for _, li := range orig.Items {
		item := li
		item.ID = uuid.New()
		item.InvoiceID = storno.ID
		item.Negate()
		items = append(items, item)
	}
	storno.Items = items
	return storno
}

func objectKey(companyID, invoiceID uuid.UUID, ext string) string {
	return fmt.Sprintf("invoices/%s/%s.%s", companyID, invoiceID, ext)
}
