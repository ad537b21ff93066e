package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"

	"gitlab.com/amize/amize-backend/pkg/errorx"
)

type Envelope map[string]any

// MaxJSONBodySize bounds JSON request bodies; multipart uploads set their own limit.
const MaxJSONBodySize = 1 << 20

// ReadJSON decodes a single JSON value from the body into v. Unknown fields
// are ignored so clients may send extra form state. Failures come back as
// MALFORMED_JSON or PAYLOAD_TOO_LARGE errors ready for the ErrorHandler.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(v); err != nil {
		return classifyDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errorx.NewMalformedJSON().WithCause(errors.New("body must only contain a single JSON value"))
	}

	return nil
}

func classifyDecodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		return errorx.NewPayloadTooLarge().WithCause(err)
	case errors.As(err, &syntaxErr):
		err = fmt.Errorf("badly-formed JSON at character %d: %w", syntaxErr.Offset, err)
	case errors.As(err, &typeErr):
		err = fmt.Errorf("field %q has the wrong type: %w", typeErr.Field, err)
	case errors.Is(err, io.EOF):
		err = fmt.Errorf("body must not be empty: %w", err)
	}

	return errorx.NewMalformedJSON().WithCause(err)
}

func WriteJSON(w http.ResponseWriter, status int, data Envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	maps.Copy(w.Header(), headers)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(append(js, '\n'))
	return err
}

// Success writes body with "success": true added.
func Success(w http.ResponseWriter, r *http.Request, status int, body Envelope) {
	if body == nil {
		body = make(Envelope, 1)
	}
	body["success"] = true

	if err := WriteJSON(w, status, body, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write success response", "status", status, "error", err)
	}
}
