package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
	errori18n "github.com/louisbranch/creature-arena/internal/platform/errors/i18n"
	"github.com/louisbranch/creature-arena/internal/platform/i18n"
	"go.opentelemetry.io/otel/trace"
)

// errorEnvelope is the body of every failed API response.
type errorEnvelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// describeError returns the HTTP status and localized message for err.
// Errors without a domain code become 500 with the generic message.
func describeError(r *http.Request, err error) (int, string, string) {
	locale := i18n.Locale(i18n.ResolveTag(r))
	status := apperrors.CodeOf(err).HTTPStatus()
	return status, errori18n.GetCatalog(locale).Message(err), locale
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message, locale := describeError(r, err)
	if status >= http.StatusInternalServerError {
		log.Printf("http %s %s: %v", r.Method, r.URL.Path, err)
		trace.SpanFromContext(r.Context()).RecordError(err)
	}

	w.Header().Set("Content-Language", locale)
	writeJSON(w, status, errorEnvelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("http encode response: %v", err)
	}
}

func invalidArgument(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, reason, map[string]string{"Reason": reason})
}
