package export

import (
	"strings"

	"zdenci/exporter/pkg/zdenci"
)

// Payload is a finished export ready for delivery.
type Payload struct {
	Data     []byte
	Filename string
	MIMEType string
	Format   zdenci.Format

	// Rows is the number of exported records, or -1 when unknown (remote
	// payloads are passed through without parsing).
	Rows int
}

// Size returns the payload length in bytes.
func (p *Payload) Size() int {
	return len(p.Data)
}

// ContentType returns the MIME type without the trailing ";" kept for
// compatibility with the browser download, suitable for HTTP headers.
func (p *Payload) ContentType() string {
	return strings.TrimSuffix(p.MIMEType, ";")
}

func newPayload(format zdenci.Format, data []byte, rows int) *Payload {
	return &Payload{
		Data:     data,
		Filename: format.Filename(),
		MIMEType: format.MIMEType(),
		Format:   format,
		Rows:     rows,
	}
}
