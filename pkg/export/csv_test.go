package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdenci/exporter/pkg/transform"
	"zdenci/exporter/pkg/zdenci"
)

func TestEscapeCSV(t *testing.T) {
	tests := []struct {
		name string
		in   transform.Value
		want string
	}{
		{"nil", nil, ""},
		{"empty", "", ""},
		{"integer", "42", "42"},
		{"negative decimal", "-12.5", "-12.5"},
		{"trimmed number", "  7 ", "7"},
		{"float value", 15.97, "15.97"},
		{"trailing dot not numeric", "12.", "12."},
		{"exponent bare", "1e5", "1e5"},
		{"comma", "a,b", `"a,b"`},
		{"decimal comma", "1,5", `"1,5"`},
		{"semicolon", "a;b", `"a;b"`},
		{"quote doubled", `Kaže "ok"`, `"Kaže ""ok"""`},
		{"space", "Donji grad", `"Donji grad"`},
		{"bare word", "Kameni", "Kameni"},
		{"inner whitespace only after trim", "  x  ", "x"},
		{"newline", "prvi\ndrugi", "\"prvi\ndrugi\""},
		{"carriage return", "a\rb", "\"a\rb\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeCSV(tt.in))
		})
	}
}

func TestCSVSerializer_Serialize(t *testing.T) {
	records := []zdenci.Record{
		{
			"naziv_gc":       "Donji grad",
			"lokacija":       "Ilica 1",
			"tip_zdenca":     "Kameni",
			"napomena_teren": `Kaže "ok"; radi`,
			"lon":            "15.97",
			"lat":            "45.81",
		},
		{"lokacija": "Bez"},
	}
	rows := transform.Select(records, zdenci.ExportFields)

	var buf bytes.Buffer
	require.NoError(t, NewCSVSerializer().Serialize(context.Background(), rows, zdenci.ExportFields, &buf))

	first := []string{`"Donji grad"`, `"Ilica 1"`, "Kameni", "", "", "", "", "", "", "", `"Kaže ""ok""; radi"`, "", "15.97", "45.81"}
	second := make([]string, len(zdenci.ExportFields))
	second[1] = "Bez"

	want := strings.Join(zdenci.ExportFields.Titles(), ",") + "\n" +
		strings.Join(first, ",") + "\n" +
		strings.Join(second, ",") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVSerializer_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVSerializer().Serialize(context.Background(), nil, zdenci.ExportFields, &buf))

	assert.Equal(t,
		"naziv_gc,lokacija,tip_zdenca,status_odrz,aktivan_da_ne,teren_dane,vlasnik_ki,odrzava_ki,zkc_oznaka,broj_vodomjera,napomena_teren,pozicija_tocnost,lon,lat\n",
		buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVSerializer_WriteError(t *testing.T) {
	err := NewCSVSerializer().Serialize(context.Background(), nil, zdenci.ExportFields, failingWriter{})

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, zdenci.FormatCSV, exportErr.Format)
}

func TestCSVSerializer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := transform.Select([]zdenci.Record{{"lokacija": "A"}}, zdenci.ExportFields)
	err := NewCSVSerializer().Serialize(ctx, rows, zdenci.ExportFields, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVSerializer_ReadsBackWithCSVReader(t *testing.T) {
	records := []zdenci.Record{
		{"naziv_gc": "Centar", "lokacija": "O'Hara, Jr.", "napomena_teren": "prvi\ndrugi"},
		{"naziv_gc": "Donji grad", "lokacija": "Ilica 1", "napomena_teren": `He said "hi"`, "lon": "15.97"},
		{"naziv_gc": "Šestine", "lokacija": "  Kraljevec; 2 ", "tip_zdenca": "Kameni", "lat": 45.8},
		{},
	}
	rows := transform.Select(records, zdenci.ExportFields)

	var buf bytes.Buffer
	require.NoError(t, NewCSVSerializer().Serialize(context.Background(), rows, zdenci.ExportFields, &buf))

	got, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, len(records)+1)
	assert.Equal(t, zdenci.ExportFields.Titles(), got[0])

	for i, rec := range records {
		want := make([]string, len(zdenci.ExportFields))
		for j, f := range zdenci.ExportFields {
			want[j] = strings.TrimSpace(rec.String(f.Key))
		}
		assert.Equal(t, want, got[i+1], "row %d", i)
	}
}
