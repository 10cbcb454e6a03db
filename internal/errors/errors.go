package errors

import "fmt"

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

// GatewayKind classifies spreadsheet gateway failures so handlers can
// translate each to a distinct user-facing message.
type GatewayKind int

const (
	GatewaySheetNotFound GatewayKind = iota
	GatewayAccessDenied
	GatewayUnknown
)

type GatewayError struct {
	Kind    GatewayKind
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

func NewGatewayError(kind GatewayKind, message string, cause error) *GatewayError {
	return &GatewayError{Kind: kind, Message: message, Cause: cause}
}

func IsGatewayError(err error) (*GatewayError, bool) {
	if ge, ok := err.(*GatewayError); ok {
		return ge, true
	}
	return nil, false
}

// UserMessage returns the translation shown to the requesting user.
func (e *GatewayError) UserMessage() string {
	switch e.Kind {
	case GatewaySheetNotFound:
		return "Ошибка: Google Sheets — таблица не найдена. Проверьте настройки."
	case GatewayAccessDenied:
		return "Ошибка доступа к Google Sheets. Проверьте доступ и права сервис-аккаунта."
	default:
		return "Неизвестная ошибка Google Sheets: " + e.Message
	}
}

// UserText translates an error into the plain-text form shown to the
// requesting user.
func UserText(err error) string {
	if ge, ok := IsGatewayError(err); ok {
		return ge.UserMessage()
	}
	return err.Error()
}

type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

func NewPermissionError(message string) *PermissionError {
	return &PermissionError{Message: message}
}

func IsPermissionError(err error) (*PermissionError, bool) {
	if pe, ok := err.(*PermissionError); ok {
		return pe, true
	}
	return nil, false
}
