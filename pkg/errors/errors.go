package errors

import "fmt"

// ErrNotFound indicates a requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ErrValidation carries per-field validation messages
type ErrValidation struct {
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

// ErrInvalidStateTransition indicates an order status change that is not allowed
type ErrInvalidStateTransition struct {
	From interface{}
	To   interface{}
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %v to %v", e.From, e.To)
}

// ErrGatewayNotConfigured indicates the payment gateway credentials are missing
type ErrGatewayNotConfigured struct{}

func (e *ErrGatewayNotConfigured) Error() string {
	return "payment gateway is not configured"
}

// ErrInvalidCallback indicates a malformed or incomplete payment callback payload
type ErrInvalidCallback struct {
	Reason string
}

func (e *ErrInvalidCallback) Error() string {
	return fmt.Sprintf("invalid payment callback: %s", e.Reason)
}

// ErrUnauthorized indicates failed authentication
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}
