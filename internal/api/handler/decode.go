package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"taskify/internal/common"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object from the request body into dst.
// Malformed bodies are reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return common.NewValidationError("body", "request body is required")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return common.NewValidationError(field, "extra fields not permitted")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return common.NewValidationError(typeErr.Field, "invalid type, expected "+typeErr.Type.String())
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return common.Errorf("request body too large: %w", common.ErrBadRequest)
		}
		return common.NewValidationError("body", "invalid JSON body")
	}
	return nil
}

func isFormRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}
