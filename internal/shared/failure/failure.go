// Package failure defines the closed set of business failure kinds raised by the
// marketplace services. Transport adapters map a Kind to a status code; services
// never deal with HTTP concerns.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindEmptyOrder        Kind = "EMPTY_ORDER"
	KindNoStore           Kind = "NO_STORE"
	KindNotAuthorized     Kind = "NOT_AUTHORIZED"
	KindStoreNotApproved  Kind = "STORE_NOT_APPROVED"
	KindDuplicateStore    Kind = "DUPLICATE_STORE"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindConflict          Kind = "CONFLICT"
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
)

// Error is a classified failure carrying structured context.
type Error struct {
	Kind    Kind
	Message string
	// Entity and ID identify the referenced resource, when there is one.
	Entity string
	ID     string
	// Requested and Available are set for InsufficientStock.
	Requested int
	Available int
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrEmptyOrder        = &Error{Kind: KindEmptyOrder}
	ErrNoStore           = &Error{Kind: KindNoStore}
	ErrNotAuthorized     = &Error{Kind: KindNotAuthorized}
	ErrStoreNotApproved  = &Error{Kind: KindStoreNotApproved}
	ErrDuplicateStore    = &Error{Kind: KindDuplicateStore}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
)

// New builds a failure of the given kind. Used when a kind crosses a process
// boundary and must be rebuilt from its name.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the failure kind carried by err, or "" when err is unclassified.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// NotFound reports a missing entity.
func NotFound(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %q not found", entity, id),
		Entity:  entity,
		ID:      id,
	}
}

// InsufficientStock reports that a product cannot cover the requested quantity.
func InsufficientStock(productID, productName string, requested, available int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("insufficient stock for %s: requested %d, available %d", productName, requested, available),
		Entity:    "product",
		ID:        productID,
		Requested: requested,
		Available: available,
	}
}

// EmptyOrder reports an order request without items.
func EmptyOrder() *Error {
	return &Error{Kind: KindEmptyOrder, Message: "order must contain at least one item"}
}

// NoStore reports that the acting user owns no store.
func NoStore(userID string) *Error {
	return &Error{
		Kind:    KindNoStore,
		Message: "you need a store to perform this action",
		Entity:  "user",
		ID:      userID,
	}
}

// NotAuthorized reports an ownership violation.
func NotAuthorized(entity, id string) *Error {
	return &Error{
		Kind:    KindNotAuthorized,
		Message: fmt.Sprintf("not authorized to modify %s %q", entity, id),
		Entity:  entity,
		ID:      id,
	}
}

// StoreNotApproved reports that a store may not list products yet.
func StoreNotApproved(storeID, status string) *Error {
	return &Error{
		Kind:    KindStoreNotApproved,
		Message: fmt.Sprintf("store is %s; products can be listed once an administrator approves it", status),
		Entity:  "store",
		ID:      storeID,
	}
}

// DuplicateStore reports that the user already owns a store.
func DuplicateStore(ownerID string) *Error {
	return &Error{
		Kind:    KindDuplicateStore,
		Message: "you already own a store",
		Entity:  "user",
		ID:      ownerID,
	}
}

// Invalid wraps a validation error.
func Invalid(err error) *Error {
	if err == nil {
		return &Error{Kind: KindInvalidInput, Message: "invalid input"}
	}
	return &Error{Kind: KindInvalidInput, Message: err.Error(), Err: err}
}

// Conflict reports a write that lost against concurrent state.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unauthenticated reports missing or invalid credentials.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}
