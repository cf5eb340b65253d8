package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/processlens/gateway/pkg/logger"
	"github.com/processlens/gateway/pkg/upload"
)

// Nginx convention for a client that went away before the response.
const statusClientClosedRequest = 499

// HandleUpload is the POST handler for event log uploads. The staged file is
// released inside process, so by the time the response is written the scratch
// directory holds nothing for this request.
func (g *Gateway) HandleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	res := g.process(r)

	if g.metrics != nil {
		g.metrics.RecordUpload(string(res.state))
	}
	g.log.InfoContext(r.Context(), "upload request completed",
		slog.String("state", string(res.state)),
		slog.Int("status", res.status),
		slog.Duration("duration", time.Since(start)))

	writeEnvelope(w, res.status, res.envelope, g.log)
}

func writeEnvelope(w http.ResponseWriter, status int, env any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error("failed to write response", logger.Error(err))
	}
}

func tooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File exceeds the maximum upload size of %d bytes.", maxBytes)
}

func fileCountMessage(n int) string {
	if n == 0 {
		return "No file provided. Attach exactly one file in the \"file\" field."
	}
	return fmt.Sprintf("Expected exactly one file, got %d.", n)
}

func validationMessage(err error, maxBytes int64) string {
	switch {
	case errors.Is(err, upload.ErrPayloadTooLarge):
		return tooLargeMessage(maxBytes)
	case errors.Is(err, upload.ErrInvalidFileType):
		return fmt.Sprintf("File type not allowed. Allowed types: %s.", upload.AllowedExtensions())
	case errors.Is(err, upload.ErrInvalidUpload):
		return "Invalid upload."
	default:
		return "Invalid upload."
	}
}
