package grid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdenci/exporter/pkg/filter"
	"zdenci/exporter/pkg/zdenci"
)

func sampleRows() []zdenci.Record {
	return []zdenci.Record{
		{"lokacija": "Ilica 1", "naziv_gc": "Donji grad", "aktivan_da_ne": "da", "lon": "15.97"},
		{"lokacija": "Vlaška 20", "naziv_gc": "Donji grad", "aktivan_da_ne": "ne", "lon": "15.99"},
		{"lokacija": "Trg 3", "naziv_gc": "Trešnjevka - sjever", "aktivan_da_ne": "da", "lon": "15.94"},
		{"lokacija": "Bez četvrti", "aktivan_da_ne": "", "lon": nil},
	}
}

func locations(rows []zdenci.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String(zdenci.KeyLokacija)
	}
	return out
}

func TestTable_CurrentRowsUnfiltered(t *testing.T) {
	tbl := New(sampleRows())
	assert.Len(t, tbl.CurrentRows(), 4)
	assert.Equal(t, 14, tbl.ColumnCount())
}

func TestTable_GlobalSmartSearch(t *testing.T) {
	tbl := New(sampleRows())
	tbl.SetSearch("donji  DA")

	assert.Equal(t, []string{"Ilica 1"}, locations(tbl.CurrentRows()))
}

func TestTable_ColumnSearchAndFilter(t *testing.T) {
	tbl := New(sampleRows())
	require.NoError(t, tbl.SetColumnSearch(1, "grad"))
	assert.Equal(t, []string{"Ilica 1", "Vlaška 20"}, locations(tbl.CurrentRows()))

	require.NoError(t, tbl.SetColumnFilter(12, filter.Predicate{Value: "15.98", Logic: filter.LogicGreater, Type: filter.TypeNum}))
	assert.Equal(t, []string{"Vlaška 20"}, locations(tbl.CurrentRows()))

	tbl.ClearFilters()
	require.NoError(t, tbl.SetColumnFilter(4, filter.Predicate{Logic: filter.LogicEmpty}))
	assert.Equal(t, []string{"Bez četvrti"}, locations(tbl.CurrentRows()))
}

func TestTable_NumFilterOnTextColumnMatchesAsText(t *testing.T) {
	tbl := New(sampleRows())
	require.NoError(t, tbl.SetColumnFilter(0, filter.Predicate{Value: "1", Logic: filter.LogicGreater, Type: filter.TypeNum}))

	assert.Equal(t, []string{"Ilica 1"}, locations(tbl.CurrentRows()))
}

func TestTable_FilterOverridesColumnSearch(t *testing.T) {
	tbl := New(sampleRows())
	require.NoError(t, tbl.SetColumnSearch(1, "nothing matches this"))
	require.NoError(t, tbl.SetColumnFilter(1, filter.Predicate{Value: "trešnjevka", Logic: filter.LogicStarts}))

	assert.Equal(t, []string{"Trg 3"}, locations(tbl.CurrentRows()))
}

func TestTable_Order(t *testing.T) {
	tbl := New(sampleRows())
	require.NoError(t, tbl.SetOrder(Order{Column: 12, Desc: true}))

	assert.Equal(t, []string{"Vlaška 20", "Ilica 1", "Trg 3", "Bez četvrti"}, locations(tbl.CurrentRows()))
	assert.Error(t, tbl.SetOrder(Order{Column: 14}))
}

func TestTable_IndexOutOfRange(t *testing.T) {
	tbl := New(nil)
	assert.Error(t, tbl.SetColumnSearch(-1, "x"))
	assert.Error(t, tbl.SetColumnFilter(99, filter.Predicate{Logic: filter.LogicEmpty}))
}

func TestTable_CopiesAreIsolated(t *testing.T) {
	rows := sampleRows()
	tbl := New(rows)
	rows[0]["lokacija"] = "changed"

	got := tbl.CurrentRows()
	got[1]["lokacija"] = "changed too"

	assert.Equal(t, []string{"Ilica 1", "Vlaška 20", "Trg 3", "Bez četvrti"}, locations(tbl.CurrentRows()))

	state, ok := tbl.CurrentFilterState()
	require.True(t, ok)
	state.Search = "mutated"
	assert.Empty(t, tbl.GlobalSearch())
}

func TestTable_WithoutSnapshot(t *testing.T) {
	tbl := New(sampleRows(), WithoutSnapshot())
	tbl.SetSearch("ilica")
	require.NoError(t, tbl.SetColumnSearch(2, "kameni"))

	_, ok := tbl.CurrentFilterState()
	assert.False(t, ok)

	params := filter.Extract(tbl)
	assert.Equal(t, []string{"search", "columns[2][search][value]"}, params.Keys())
}

func TestTable_ConcurrentAccess(t *testing.T) {
	tbl := New(sampleRows())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tbl.SetRows(sampleRows())
			tbl.SetSearch("grad")
		}()
		go func() {
			defer wg.Done()
			_ = tbl.CurrentRows()
			_ = filter.Extract(tbl)
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, tbl.Len())
}
