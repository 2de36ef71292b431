package zdenci

// Field keys of a well record.
const (
	KeyLokacija        = "lokacija"
	KeyNazivGC         = "naziv_gc"
	KeyTipZdenca       = "tip_zdenca"
	KeyStatusOdrz      = "status_odrz"
	KeyAktivanDaNe     = "aktivan_da_ne"
	KeyTerenDane       = "teren_dane"
	KeyVlasnikKI       = "vlasnik_ki"
	KeyOdrzavaKI       = "odrzava_ki"
	KeyZKCOznaka       = "zkc_oznaka"
	KeyBrojVodomjera   = "broj_vodomjera"
	KeyNapomenaTeren   = "napomena_teren"
	KeyPozicijaTocnost = "pozicija_tocnost"
	KeyLon             = "lon"
	KeyLat             = "lat"
)

const (
	// GroupKey partitions records in the grouped JSON export.
	GroupKey = KeyNazivGC

	// UnknownGroup labels records whose group key is missing or empty.
	UnknownGroup = "Nepoznato"
)

// Field is one exported or displayed column: the record key and its title.
type Field struct {
	Key   string
	Title string
}

// Fields is an ordered field list.
type Fields []Field

// Keys returns the field keys in order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Key
	}
	return keys
}

// Titles returns the field titles in order.
func (f Fields) Titles() []string {
	titles := make([]string, len(f))
	for i, field := range f {
		titles[i] = field.Title
	}
	return titles
}

// Index returns the position of key, or -1.
func (f Fields) Index(key string) int {
	for i, field := range f {
		if field.Key == key {
			return i
		}
	}
	return -1
}

// Without returns a copy of the list with the given keys removed.
func (f Fields) Without(keys ...string) Fields {
	out := make(Fields, 0, len(f))
outer:
	for _, field := range f {
		for _, k := range keys {
			if field.Key == k {
				continue outer
			}
		}
		out = append(out, field)
	}
	return out
}

// ExportFields is the single ordered field list shared by the CSV and JSON
// serializers. Titles equal keys so that exported headers are stable.
var ExportFields = Fields{
	{Key: KeyNazivGC, Title: KeyNazivGC},
	{Key: KeyLokacija, Title: KeyLokacija},
	{Key: KeyTipZdenca, Title: KeyTipZdenca},
	{Key: KeyStatusOdrz, Title: KeyStatusOdrz},
	{Key: KeyAktivanDaNe, Title: KeyAktivanDaNe},
	{Key: KeyTerenDane, Title: KeyTerenDane},
	{Key: KeyVlasnikKI, Title: KeyVlasnikKI},
	{Key: KeyOdrzavaKI, Title: KeyOdrzavaKI},
	{Key: KeyZKCOznaka, Title: KeyZKCOznaka},
	{Key: KeyBrojVodomjera, Title: KeyBrojVodomjera},
	{Key: KeyNapomenaTeren, Title: KeyNapomenaTeren},
	{Key: KeyPozicijaTocnost, Title: KeyPozicijaTocnost},
	{Key: KeyLon, Title: KeyLon},
	{Key: KeyLat, Title: KeyLat},
}

// DisplayColumns is the grid's column order. Filter-state column indices
// refer to positions in this list.
var DisplayColumns = Fields{
	{Key: KeyLokacija, Title: "Lokacija"},
	{Key: KeyNazivGC, Title: "Gradska četvrt"},
	{Key: KeyTipZdenca, Title: "Tip zdenca"},
	{Key: KeyStatusOdrz, Title: "Status održavanja"},
	{Key: KeyAktivanDaNe, Title: "Aktivan"},
	{Key: KeyTerenDane, Title: "Stanje terena"},
	{Key: KeyVlasnikKI, Title: "Vlasnik"},
	{Key: KeyOdrzavaKI, Title: "Održava"},
	{Key: KeyZKCOznaka, Title: "ZK čestica"},
	{Key: KeyBrojVodomjera, Title: "Broj vodomjera"},
	{Key: KeyNapomenaTeren, Title: "Napomena teren"},
	{Key: KeyPozicijaTocnost, Title: "Točnost pozicije"},
	{Key: KeyLon, Title: "Lon"},
	{Key: KeyLat, Title: "Lat"},
}

// SortKeys order local exports: by group, then by location.
var SortKeys = []string{KeyNazivGC, KeyLokacija}

// NumericKeys are coerced to numbers in the JSON export.
var NumericKeys = []string{KeyLon, KeyLat}

// IsNumeric reports whether key is one of NumericKeys.
func IsNumeric(key string) bool {
	for _, k := range NumericKeys {
		if k == key {
			return true
		}
	}
	return false
}
