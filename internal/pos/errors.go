package pos

import "errors"

// Engine error kinds. Validation errors are returned before any state
// mutation; network errors wrap one of these so callers can route on them
// with errors.Is.
var (
	ErrProductUnavailable  = errors.New("product unavailable")
	ErrUnknownAddonKind    = errors.New("unknown addon kind")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrSessionExpired      = errors.New("session expired")
	ErrSubmissionFailed    = errors.New("submission failed")
	ErrCatalogFetchFailed  = errors.New("catalog fetch failed")
	ErrDiscountFetchFailed = errors.New("discount fetch failed")

	ErrLineItemNotFound = errors.New("line item not found")
	ErrEditorOpen       = errors.New("addon editor already open")
	ErrEditorClosed     = errors.New("addon editor not open")
	ErrPickerOpen       = errors.New("discount picker already open")
	ErrPickerClosed     = errors.New("discount picker not open")
)
