package delivery

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"zdenci/exporter/pkg/export"
)

// HTTPDeliverer writes a payload as an attachment response. Create one per
// request.
type HTTPDeliverer struct {
	W http.ResponseWriter
}

// NewHTTPDeliverer creates a deliverer for one response.
func NewHTTPDeliverer(w http.ResponseWriter) *HTTPDeliverer {
	return &HTTPDeliverer{W: w}
}

// Deliver implements export.Deliverer.
func (d *HTTPDeliverer) Deliver(ctx context.Context, p *export.Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	h := d.W.Header()
	h.Set("Content-Type", p.ContentType())
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": p.Filename}))
	h.Set("Content-Length", strconv.Itoa(p.Size()))
	h.Set("X-Content-Type-Options", "nosniff")
	d.W.WriteHeader(http.StatusOK)

	if _, err := d.W.Write(p.Data); err != nil {
		return "", fmt.Errorf("failed to write response: %w", err)
	}
	return "http:" + p.Filename, nil
}
