package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ARUMANDESU/validation"
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/otelx"
)

var logger = otelslog.NewLogger("amize/pkg/httpx")

// LocaleFiles are loaded from the locales filesystem, in order.
var LocaleFiles = []string{
	"locales/en.toml",
	"locales/validation.en.toml",
}

// ErrorHandler writes application errors as localized {success:false} bodies.
type ErrorHandler struct {
	bundle *i18n.Bundle
	logger *slog.Logger
}

func NewErrorHandler(locales fs.FS, l *slog.Logger) (*ErrorHandler, error) {
	if l == nil {
		l = logger
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range LocaleFiles {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			return nil, err
		}
	}

	return &ErrorHandler{bundle: bundle, logger: l}, nil
}

// Localizer picks messages for the languages in the Accept-Language header,
// falling back to English.
func (h *ErrorHandler) Localizer(r *http.Request) *i18n.Localizer {
	return i18n.NewLocalizer(h.bundle, r.Header.Get("Accept-Language"))
}

// Message localizes key, returning key itself when the bundle lacks it.
func (h *ErrorHandler) Message(r *http.Request, key string) string {
	msg, err := h.Localizer(r).Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil || msg == "" {
		return key
	}
	return msg
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, span trace.Span, err error, desc string) {
	if span != nil {
		otelx.RecordSpanError(span, err, desc)
	}
	localizer := h.Localizer(r)

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		h.logger.WarnContext(r.Context(), desc, "error", err.Error())
		h.writeError(w, r, http.StatusBadRequest, Envelope{
			"code":    errorx.CodeValidationFailed,
			"message": errorx.NewValidationFailed().Localize(localizer),
			"errors":  fieldErrors(localizer, verrs),
		})
		return
	}

	var verr validation.Error
	if errors.As(err, &verr) {
		h.logger.WarnContext(r.Context(), desc, "error", err.Error())
		h.writeError(w, r, http.StatusBadRequest, Envelope{
			"code":    errorx.CodeValidationFailed,
			"message": localizeValidation(localizer, verr),
		})
		return
	}

	var appErr *errorx.I18nError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatusCode()
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), desc, "error", err.Error())
		} else {
			h.logger.WarnContext(r.Context(), desc, "error", err.Error())
		}
		h.writeError(w, r, status, Envelope{
			"code":    appErr.Code,
			"message": appErr.Localize(localizer),
		})
		return
	}

	h.logger.ErrorContext(r.Context(), "unhandled error: "+desc, "error", err.Error())
	internalErr := errorx.NewInternalError()
	h.writeError(w, r, internalErr.HTTPStatusCode(), Envelope{
		"code":    internalErr.Code,
		"message": internalErr.Localize(localizer),
	})
}

func (h *ErrorHandler) writeError(w http.ResponseWriter, r *http.Request, status int, body Envelope) {
	body["success"] = false

	if err := WriteJSON(w, status, body, nil); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write error response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// fieldErrors flattens verrs into {field: [messages]}. Nested errors, such as
// the per-index errors of a slice, are reported under their parent field.
func fieldErrors(localizer *i18n.Localizer, verrs validation.Errors) map[string][]string {
	out := make(map[string][]string, len(verrs))
	for field, err := range verrs {
		if err == nil {
			continue
		}
		key := lowerFirst(field)
		out[key] = append(out[key], fieldMessages(localizer, err)...)
	}
	return out
}

func fieldMessages(localizer *i18n.Localizer, err error) []string {
	var nested validation.Errors
	if errors.As(err, &nested) {
		keys := make([]string, 0, len(nested))
		for k := range nested {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var msgs []string
		for _, k := range keys {
			if nested[k] != nil {
				msgs = append(msgs, fieldMessages(localizer, nested[k])...)
			}
		}
		return msgs
	}

	var verr validation.Error
	if errors.As(err, &verr) {
		return []string{localizeValidation(localizer, verr)}
	}

	return []string{err.Error()}
}

func localizeValidation(localizer *i18n.Localizer, verr validation.Error) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    verr.Code(),
		TemplateData: verr.Params(),
	})
	if err != nil || msg == "" {
		return verr.Error()
	}
	return msg
}

// lowerFirst turns Go field names ("DateOfBirth") into json style keys ("dateOfBirth").
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsLower(r) {
		return s
	}
	return strings.ToLower(string(r)) + s[size:]
}
