package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// parseID extracts an integer URL parameter
func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// messageResponse is the envelope for mutations that return a count
// rather than a record
type messageResponse struct {
	Message      string `json:"message"`
	AffectedRows int64  `json:"affected_rows,omitempty"`
}
