package invoice

import (
	"errors"
	"fmt"

	"invoicing-backend/internal/services/validation"
)

var (
	// ErrInvoiceNotFound matches standard 404 behavior.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrNotDraft protects the state machine: only drafts can be finalized.
	ErrNotDraft = errors.New("invoice is not in draft state")

	// ErrAlreadyFinalized is the idempotency-friendly special case of
	// ErrNotDraft: the invoice already carries a number.
	ErrAlreadyFinalized = errors.New("invoice is already finalized")

	// ErrImmutable guards finalized invoices against content edits.
	ErrImmutable = errors.New("finalized invoices are immutable")

	// Cancellation eligibility, each a distinct rejectable state.
	ErrDraftNotCancellable = errors.New("a draft cannot be cancelled, delete it instead")
	ErrAlreadyCancelled    = errors.New("invoice is already cancelled")
	ErrIsCancellation      = errors.New("a cancellation invoice cannot be cancelled")

	// ErrInvalidStatus rejects unknown manual status transitions.
	ErrInvalidStatus = errors.New("invalid status transition")

	// ErrMissingParty means a non-self party reference lacks its contact.
	ErrMissingParty = errors.New("external party reference without contact id")
)

// ValidationFailedError carries the full validator result so callers
// can fix and retry. The draft persists unchanged.
type ValidationFailedError struct {
	Result validation.Result
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("invoice failed compliance validation with %d error(s)", len(e.Result.Errors))
}

// CancellationExistsError reports the second cancellation attempt
// together with the number of the cancellation that already exists.
type CancellationExistsError struct {
	ExistingNumber string
}

func (e *CancellationExistsError) Error() string {
	return fmt.Sprintf("invoice already has cancellation %s", e.ExistingNumber)
}

// NumberingError is fatal: finalization aborts before any document is
// generated.
type NumberingError struct {
	Err error
}

func (e *NumberingError) Error() string { return "number allocation failed: " + e.Err.Error() }
func (e *NumberingError) Unwrap() error { return e.Err }

// DocumentError covers render, serialize and embed failures. The
// draft (or cancellation candidate) is left unmodified.
type DocumentError struct {
	Stage string
	Err   error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s failed: %v", e.Stage, e.Err)
}
func (e *DocumentError) Unwrap() error { return e.Err }

// StorageError covers upload and persistence failures after documents
// were generated. Compensating deletes have already run when it
// surfaces.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "document storage failed: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }
