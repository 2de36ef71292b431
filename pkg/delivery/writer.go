package delivery

import (
	"context"
	"fmt"
	"io"

	"zdenci/exporter/pkg/export"
)

// WriterDeliverer writes payloads to an io.Writer, e.g. os.Stdout.
type WriterDeliverer struct {
	W    io.Writer
	Name string
}

// NewWriterDeliverer creates a deliverer writing to w. name is reported as
// the delivery target.
func NewWriterDeliverer(w io.Writer, name string) *WriterDeliverer {
	return &WriterDeliverer{W: w, Name: name}
}

// Deliver implements export.Deliverer.
func (d *WriterDeliverer) Deliver(ctx context.Context, p *export.Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := d.W.Write(p.Data); err != nil {
		return "", fmt.Errorf("failed to write payload to %s: %w", d.Name, err)
	}
	return d.Name, nil
}
