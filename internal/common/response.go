package common

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message, Code: codeForStatus(code)})
}

// RespondWithAppError writes err using its mapped status. Server-side failures
// are logged and answered with a generic message.
func RespondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatusFromError(err)
	resp := ErrorResponse{Error: err.Error(), Code: ErrorCode(err)}

	var verr *ValidationError
	switch {
	case status >= http.StatusInternalServerError:
		log.Printf("ERROR: %s %s: %v", r.Method, r.URL.Path, err)
		resp.Error = "Internal server error"
	case errors.As(err, &verr):
		resp.Error = ErrValidation.Error()
		resp.Details = verr.Fields
	case status == http.StatusUnauthorized:
		resp.Error = ErrUnauthorized.Error()
		w.Header().Set("WWW-Authenticate", "Bearer")
	case status == http.StatusNotFound:
		resp.Error = ErrNotFound.Error()
	}
	RespondWithJSON(w, status, resp)
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response", "code": "internal_error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusUnprocessableEntity:
		return "validation_error"
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusConflict:
		return "conflict"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	}
	return "internal_error"
}
