package repositories

import (
	"errors"

	"katalog/internal/i18n"
)

var (
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateName is returned when the storage unique index rejects a
	// product name.
	ErrDuplicateName = errors.New("product name already exists")
	// ErrStockAvailable blocks deleting a product that still has stock.
	ErrStockAvailable = errors.New("product cannot be deleted because stock is still available")
)

// BusinessRuleViolation is returned when an operation is refused because of
// the current state of a product rather than a storage failure.
type BusinessRuleViolation struct {
	ProductID string
	// Err is the sentinel naming the rule, e.g. ErrStockAvailable.
	Err error
	// MessageKey is the i18n key of the client-facing explanation.
	MessageKey string
}

func (e *BusinessRuleViolation) Error() string {
	return e.Err.Error()
}

func (e *BusinessRuleViolation) Unwrap() error {
	return e.Err
}

func stockAvailable(productID string) error {
	return &BusinessRuleViolation{
		ProductID:  productID,
		Err:        ErrStockAvailable,
		MessageKey: i18n.MsgStockAvailable,
	}
}
