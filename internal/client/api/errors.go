package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avetisovm/amora/internal/common"
)

// ValidationError carries the server-provided detail for a rejected input,
// surfaced inline by feature code. When the backend sends no usable detail a
// generic message is used instead.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return "invalid input"
	}
	return e.Detail
}

// detailOf extracts the "detail" field from an error body. FastAPI-style
// backends send either a string or a structured list; only the string form
// is meaningful to the client.
func detailOf(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Detail == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err != nil {
		return ""
	}
	return s
}

// apiError maps a non-recoverable response to the client error taxonomy.
func apiError(status int, data []byte) error {
	detail := detailOf(data)

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, statusDetail(status, detail))
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, statusDetail(status, detail))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{Detail: detail}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", common.ErrUnavailable, status)
	default:
		return fmt.Errorf("api error: %s", statusDetail(status, detail))
	}
}

func statusDetail(status int, detail string) string {
	if detail == "" {
		return fmt.Sprintf("status %d", status)
	}
	return detail
}
