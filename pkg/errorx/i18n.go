package errorx

import (
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"gitlab.com/amize/amize-backend/pkg/i18nx"
)

// I18nError is an application error carrying a stable code, an HTTP status
// hint and a message key resolved against the locale bundles at the edge.
//
// The With* builders return a copy, so package level sentinel errors can be
// decorated per call without being mutated.
type I18nError struct {
	cause              error
	MessageKey         string
	MessageArgs        map[string]any
	MessagePluralCount any
	HTTPCode           int
	Code               Code
}

func (e *I18nError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.MessageKey)
	}

	return fmt.Sprintf("[%s] %s: %s", e.Code, e.MessageKey, e.cause)
}

func (e *I18nError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *I18nError with the same code and message key.
func (e *I18nError) Is(target error) bool {
	t, ok := target.(*I18nError)
	if !ok || e == nil || t == nil {
		return false
	}

	return e.Code == t.Code && e.MessageKey == t.MessageKey
}

// Localize resolves the message key. A key missing from the bundle falls back
// to the key itself instead of panicking.
func (e *I18nError) Localize(localizer *i18n.Localizer) string {
	if localizer == nil {
		return e.MessageKey
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    e.MessageKey,
		TemplateData: e.MessageArgs,
		PluralCount:  e.MessagePluralCount,
	})
	if err != nil || msg == "" {
		return e.MessageKey
	}

	return msg
}

func (e *I18nError) HTTPStatusCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}

	return HTTPStatusCode(e.Code)
}

func (e *I18nError) clone() *I18nError {
	c := *e
	if e.MessageArgs != nil {
		c.MessageArgs = maps.Clone(e.MessageArgs)
	}
	return &c
}

func (e *I18nError) WithKey(key string) *I18nError {
	c := e.clone()
	c.MessageKey = key
	return c
}

func (e *I18nError) WithArgs(args map[string]any) *I18nError {
	c := e.clone()
	if c.MessageArgs == nil {
		c.MessageArgs = make(map[string]any, len(args))
	}

	maps.Copy(c.MessageArgs, args)

	return c
}

func (e *I18nError) WithCause(cause error) *I18nError {
	c := e.clone()
	c.cause = cause
	return c
}

func New(messageKey string) *I18nError {
	return &I18nError{
		MessageKey: messageKey,
		HTTPCode:   http.StatusInternalServerError,
		Code:       CodeInternal,
	}
}

func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}

	var i18nErr *I18nError
	if errors.As(err, &i18nErr) {
		return i18nErr.Code == code
	}

	return false
}

func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// Client Errors (4xx)
func NewInvalidRequest() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyInvalid,
		Code:       CodeInvalid,
		HTTPCode:   http.StatusBadRequest,
	}
}

func NewValidationFailed() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyValidationFailed,
		Code:       CodeValidationFailed,
		HTTPCode:   http.StatusBadRequest,
	}
}

func NewMalformedJSON() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyMalformedJSON,
		Code:       CodeMalformedJSON,
		HTTPCode:   http.StatusBadRequest,
	}
}

func NewPayloadTooLarge() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyPayloadTooLarge,
		Code:       CodePayloadTooLarge,
		HTTPCode:   http.StatusRequestEntityTooLarge,
	}
}

func NewUnauthorized() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyUnauthorized,
		Code:       CodeUnauthorized,
		HTTPCode:   http.StatusUnauthorized,
	}
}

func NewInvalidCredentials() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyInvalidCredentials,
		Code:       CodeInvalidCredentials,
		HTTPCode:   http.StatusUnauthorized,
	}
}

func NewNotFound() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyNotFound,
		Code:       CodeNotFound,
		HTTPCode:   http.StatusNotFound,
	}
}

func NewMethodNotAllowed() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyMethodNotAllowed,
		Code:       CodeMethodNotAllowed,
		HTTPCode:   http.StatusMethodNotAllowed,
	}
}

func NewConflict() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyConflict,
		Code:       CodeConflict,
		HTTPCode:   http.StatusConflict,
	}
}

// Business Logic Errors
func NewAlreadyVerified() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyAlreadyVerified,
		Code:       CodeAlreadyVerified,
		HTTPCode:   http.StatusBadRequest,
	}
}

func NewInvalidOrExpired() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyInvalidOrExpiredCode,
		Code:       CodeInvalidOrExpired,
		HTTPCode:   http.StatusBadRequest,
	}
}

// Server Errors (5xx)
func NewInternalError() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyInternalError,
		Code:       CodeInternal,
		HTTPCode:   http.StatusInternalServerError,
	}
}

func NewUpstreamServiceError() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyUpstreamServiceError,
		Code:       CodeUpstreamError,
		HTTPCode:   http.StatusBadGateway,
	}
}

func NewUpstreamTimeout() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyUpstreamTimeout,
		Code:       CodeUpstreamTimeout,
		HTTPCode:   http.StatusGatewayTimeout,
	}
}
