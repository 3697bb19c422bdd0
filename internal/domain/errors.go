package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput marks malformed request parameters; wrap it with
	// fmt.Errorf("%w: ...") so callers can match the class with errors.Is.
	ErrInvalidInput = errors.New("invalid input")
)

// Catalog errors.
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product already exists")
	ErrProductSoldOut       = errors.New("product sold out")
	ErrLowStock             = errors.New("insufficient stock")
)

// Cart workflow errors.
var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrProductNotInCart = errors.New("product not in cart")
)

// Listing filter errors, one per malformed grouping combination.
var (
	ErrIncorrectNullGrouping     = errors.New("category and model must be absent without grouping")
	ErrIncorrectCategoryGrouping = errors.New("grouping by category requires a valid category and no model")
	ErrIncorrectModelGrouping    = errors.New("grouping by model requires a model and no category")
)

// User errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUnauthorized      = errors.New("operation not allowed for this user")
)
