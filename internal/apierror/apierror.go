// Package apierror defines the typed domain failures raised by services and
// the canonical error envelope for all 4xx/5xx HTTP responses.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "net/http"

// Stable error codes shared with the frontend.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeUnexpected    = "UNEXPECTED_ERROR"
	CodeDeleteBlocked = "BUDGET_DELETE_NOT_ALLOWED"
	CodeEditBlocked   = "BUDGET_EDIT_NOT_ALLOWED"
	CodePurchased     = "BUDGET_ALREADY_PURCHASED"
)

// Error is a domain (business) failure. Services raise it and the handler
// layer translates it to HTTP without inspecting internals.
type Error struct {
	Code    string         `json:"code"`
	Status  int            `json:"-"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func (e *Error) Error() string { return e.Message }

// Envelope is the wire format of every error response:
// {"error": {"code": ..., "message": ..., "details": {...}}}
type Envelope struct {
	Err *Error `json:"error"`
}

func Wrap(e *Error) Envelope { return Envelope{Err: e} }

func newError(code string, status int, msg string, details map[string]any) *Error {
	if details == nil {
		details = map[string]any{}
	}
	return &Error{Code: code, Status: status, Message: msg, Details: details}
}

func Validation(msg string, details map[string]any) *Error {
	if msg == "" {
		msg = "Los datos enviados no son válidos."
	}
	return newError(CodeValidation, http.StatusBadRequest, msg, details)
}

func NotFound(msg string, details map[string]any) *Error {
	if msg == "" {
		msg = "Recurso no encontrado."
	}
	return newError(CodeNotFound, http.StatusNotFound, msg, details)
}

func Conflict(msg string, details map[string]any) *Error {
	if msg == "" {
		msg = "Conflicto con el estado actual del recurso."
	}
	return newError(CodeConflict, http.StatusConflict, msg, details)
}

func Unexpected() *Error {
	return newError(CodeUnexpected, http.StatusInternalServerError, "Ocurrió un error inesperado.", nil)
}

// Budget-specific conflicts keep their own codes so the frontend can
// distinguish "wrong state" from "already purchased".

func BudgetDeleteNotAllowed(details map[string]any) *Error {
	return newError(CodeDeleteBlocked, http.StatusConflict,
		"No se puede eliminar el presupuesto en el estado actual.", details)
}

func BudgetEditNotAllowed(details map[string]any) *Error {
	return newError(CodeEditBlocked, http.StatusConflict,
		"No se puede editar el presupuesto en el estado actual.", details)
}

func BudgetAlreadyPurchased(details map[string]any) *Error {
	return newError(CodePurchased, http.StatusConflict,
		"El presupuesto ya fue comprado y no puede modificarse.", details)
}
