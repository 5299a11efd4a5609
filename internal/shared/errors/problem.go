// Package errors renders failures as RFC 7807 problem documents that also carry
// the storefront's legacy {success, msg} envelope.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem plus the fields the checkout widget reads.
type ProblemDetail struct {
	// Success is always false; the storefront scripts branch on it.
	Success bool `json:"success"`
	// Msg is the customer-safe message shown by the storefront.
	Msg      string `json:"msg"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithMsg overrides the customer-facing message.
func (p ProblemDetail) WithMsg(msg string) ProblemDetail {
	p.Msg = msg
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// message picks what goes into msg when nothing set it explicitly.
func (p ProblemDetail) message() string {
	switch {
	case p.Msg != "":
		return p.Msg
	case p.Detail != "":
		return p.Detail
	default:
		return p.Title
	}
}

const (
	TypeValidation      = "/problems/validation-error"
	TypeNotFound        = "/problems/not-found"
	TypeConflict        = "/problems/conflict"
	TypeInternal        = "/problems/internal-error"
	TypeUnauthorized    = "/problems/unauthorized"
	TypeBadRequest      = "/problems/bad-request"
	TypeAuthenticity    = "/problems/payment-authenticity"
	TypeTooManyRequests = "/problems/too-many-requests"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// ErrPaymentAuthenticity is terminal; clients must not retry.
	ErrPaymentAuthenticity = ProblemDetail{
		Type:   TypeAuthenticity,
		Title:  "Invalid payment signature",
		Status: http.StatusBadRequest,
	}

	ErrConflict = ProblemDetail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	// ErrInternal never carries the underlying error text.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Msg:    "Something went wrong, please try again",
	}

	ErrUnauthorized = ProblemDetail{
		Type:   TypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
	}

	ErrTooManyRequests = ProblemDetail{
		Type:   TypeTooManyRequests,
		Title:  "Too Many Requests",
		Status: http.StatusTooManyRequests,
		Msg:    "Too many requests, please slow down",
	}
)

// NewValidationProblem reports field-level binding failures.
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	p := ErrValidation.WithExtension("fields", fieldErrors)
	for _, msg := range fieldErrors {
		p.Msg = msg
		break
	}
	return p
}

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType)
}
