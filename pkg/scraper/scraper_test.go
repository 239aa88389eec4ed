package scraper

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/store"
)

type staticReader struct {
	page *Page
	err  error
}

func (r staticReader) ReadPage(context.Context) (*Page, error) {
	return r.page, r.err
}

type failingStore struct {
	*store.MemoryStore
	failKey string
}

func (s failingStore) Set(ctx context.Context, values map[string]any) error {
	if _, ok := values[s.failKey]; ok {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(ctx, values)
}

func newTestScraper(t *testing.T, page *Page, s store.Store) (*Scraper, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(staticReader{page: page}, s, logging.NewWriterLogger("scraper", &buf), nil), &buf
}

func listPage(labels, values []string) *Page {
	return &Page{
		URL:          "https://rsv.example.ac.jp/facility/12",
		ListFound:    true,
		Labels:       labels,
		Values:       values,
		FacilityName: "Confocal Microscope",
		Image:        ScheduleImage{Found: true, Blank: true},
	}
}

func TestRunStoresMatchedPairs(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	page := listPage(
		[]string{"1/20 9:00～10:30", "1/20 22:00～1/21 2:00"},
		[]string{"Taro / Suga lab（24638）", "Hanako / Oguri lab（11111）"},
	)

	sc, _ := newTestScraper(t, page, s)
	result, err := sc.Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.ReservationsStored)

	records, err := store.Reservations(ctx, s)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, reservation.Record{
		StartDate: "1/20", StartTime: "9:00", EndDate: "1/20", EndTime: "10:30",
		Name: "Taro", Lab: "Suga lab", LabInfo: "24638",
	}, records[0])
	assert.Equal(t, "1/21", records[1].EndDate)
	assert.Equal(t, "2:00", records[1].EndTime)
	assert.True(t, records[1].CrossesMidnight())

	meta, err := store.Facility(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Confocal Microscope", meta.FacilityName)
}

func TestRunMismatchWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, store.SetReservations(ctx, s, []reservation.Record{{Name: "old"}}))

	page := listPage([]string{"1/20 9:00～10:30", "1/20 11:00～12:00"}, []string{"Taro / Suga lab（1）"})
	page.Image = ScheduleImage{}

	sc, logs := newTestScraper(t, page, s)
	_, err := sc.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, logs.String(), "mismatched")

	records, err := store.Reservations(ctx, s)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "old", records[0].Name)

	var name string
	found, err := s.Get(ctx, store.KeyFacilityName, &name)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRunNoDataStoresEmptySet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, store.SetReservations(ctx, s, []reservation.Record{{Name: "stale"}}))

	page := listPage(nil, nil)
	page.NoData = true
	page.FacilityName = ""

	sc, _ := newTestScraper(t, page, s)
	result, err := sc.Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.ReservationsStored)

	var records []reservation.Record
	found, err := s.Get(ctx, store.KeyReservations, &records)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, records)

	var name string
	_, err = s.Get(ctx, store.KeyFacilityName, &name)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultFacilityName, name)
}

func TestRunMissingListKeepsReservations(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, store.SetReservations(ctx, s, []reservation.Record{{Name: "kept"}}))

	page := &Page{URL: "https://rsv.example.ac.jp/", FacilityName: "NMR"}
	sc, logs := newTestScraper(t, page, s)
	result, err := sc.Run(ctx)
	require.NoError(t, err)
	assert.False(t, result.ReservationsStored)
	assert.Contains(t, logs.String(), "Reservation list not found")
	assert.Contains(t, logs.String(), "No reservation image found.")

	records, err := store.Reservations(ctx, s)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Name)
}

func TestRunScheduleImage(t *testing.T) {
	ctx := context.Background()

	t.Run("blank image clears alt", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, store.SetFirstImgAlt(ctx, s, "1/19 23:00～1/20 1:00"))

		sc, _ := newTestScraper(t, listPage(nil, nil), s)
		result, err := sc.Run(ctx)
		require.NoError(t, err)
		assert.True(t, result.ImageStored)

		meta, err := store.Facility(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, "", meta.FirstImgAlt)
	})

	t.Run("alt text stored", func(t *testing.T) {
		s := store.NewMemoryStore()
		page := listPage(nil, nil)
		page.Image = ScheduleImage{Found: true, HasAlt: true, Alt: "1/19 23:00～1/20 1:00"}

		sc, _ := newTestScraper(t, page, s)
		_, err := sc.Run(ctx)
		require.NoError(t, err)

		meta, err := store.Facility(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, "1/19 23:00～1/20 1:00", meta.FirstImgAlt)
	})

	t.Run("missing alt leaves key untouched", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, store.SetFirstImgAlt(ctx, s, "previous"))
		page := listPage(nil, nil)
		page.Image = ScheduleImage{Found: true}

		sc, logs := newTestScraper(t, page, s)
		result, err := sc.Run(ctx)
		require.NoError(t, err)
		assert.False(t, result.ImageStored)
		assert.Contains(t, logs.String(), "does not have an alt attribute")

		meta, err := store.Facility(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, "previous", meta.FirstImgAlt)
	})

	t.Run("image step survives reservation failure", func(t *testing.T) {
		s := store.NewMemoryStore()
		page := listPage([]string{"1/20 9:00～10:00"}, nil)
		page.Image = ScheduleImage{Found: true, HasAlt: true, Alt: "1/19 22:00～1/20 3:00"}

		sc, _ := newTestScraper(t, page, s)
		result, err := sc.Run(ctx)
		assert.ErrorIs(t, err, ErrMismatch)
		require.NotNil(t, result)
		assert.True(t, result.ImageStored)
	})
}

func TestRunStoreFailure(t *testing.T) {
	ctx := context.Background()
	s := failingStore{MemoryStore: store.NewMemoryStore(), failKey: store.KeyReservations}

	sc, logs := newTestScraper(t, listPage([]string{"1/20 9:00～10:00"}, []string{"Taro"}), s)
	result, err := sc.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, result.ReservationsStored)
	assert.True(t, result.ImageStored)
	assert.Contains(t, logs.String(), "Failed to save reservations")
}

func TestRunRejectsDisallowedPage(t *testing.T) {
	matcher, err := NewURLMatcher([]string{"https://rsv.example.ac.jp/*"})
	require.NoError(t, err)

	s := store.NewMemoryStore()
	page := listPage(nil, nil)
	page.URL = "https://elsewhere.example.com/"
	sc := New(staticReader{page: page}, s, logging.NewWriterLogger("scraper", &bytes.Buffer{}), matcher)

	_, err = sc.Run(context.Background())
	assert.ErrorIs(t, err, ErrPageNotAllowed)
	assert.Empty(t, s.Keys())
}

func TestRunReadError(t *testing.T) {
	sc := New(staticReader{err: errors.New("tab closed")}, store.NewMemoryStore(),
		logging.NewWriterLogger("scraper", &bytes.Buffer{}), nil)
	_, err := sc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab closed")
}

func TestParseOccupant(t *testing.T) {
	tests := []struct {
		text string
		name string
		lab  string
		code string
	}{
		{"Taro / Suga lab（24638）", "Taro", "Suga lab", "24638"},
		{"Taro / Suga lab", "Taro", "Suga lab", ""},
		{"Taro", "Taro", "", ""},
		{"Taro / Goda（A-1） / extra", "Taro", "Goda", "A-1"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, lab, code := ParseOccupant(tt.text)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.lab, lab)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestParseUnparseableLabel(t *testing.T) {
	records, err := Parse(&Page{Labels: []string{"  closed  "}, Values: []string{" Taro / Isobe lab "}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].StartTime)
	assert.Equal(t, "Taro", records[0].Name)
	assert.Equal(t, "Isobe lab", records[0].Lab)
}

func TestURLMatcher(t *testing.T) {
	var nilMatcher *URLMatcher
	assert.True(t, nilMatcher.Allows("anything"))

	m, err := NewURLMatcher([]string{"https://*.example.ac.jp/rsv/*"})
	require.NoError(t, err)
	assert.True(t, m.Allows("https://lab.example.ac.jp/rsv/facility?id=3"))
	assert.False(t, m.Allows("https://lab.example.com/rsv/facility"))
}

const samplePage = `<!DOCTYPE html>
<html><body>
<h1 class="facname"> Confocal Microscope </h1>
<section id="sec_availability">
  <table class="rsv_graph"><tbody>
    <tr><td><img class="slot" alt="1/19 23:00～1/20 1:00" src="r.png"></td><td><img class="blank" src="b.png"></td></tr>
  </tbody></table>
</section>
<div class="rsv_body_list">
  <dl class="rsv_list">
    <dt>1/20 9:00～10:30</dt><dd>Taro / Suga lab（24638）</dd>
    <dt>1/20 22:00～1/21 2:00</dt><dd>Hanako / <b>Oguri lab</b>（11111）</dd>
  </dl>
</div>
</body></html>`

func TestHTMLReader(t *testing.T) {
	reader, err := NewHTMLReader("https://rsv.example.ac.jp/f/1", strings.NewReader(samplePage))
	require.NoError(t, err)

	page, err := reader.ReadPage(context.Background())
	require.NoError(t, err)
	assert.True(t, page.ListFound)
	assert.False(t, page.NoData)
	assert.Equal(t, "Confocal Microscope", page.FacilityName)
	assert.Equal(t, []string{"1/20 9:00～10:30", "1/20 22:00～1/21 2:00"}, page.Labels)
	assert.Equal(t, []string{"Taro / Suga lab（24638）", "Hanako / Oguri lab（11111）"}, page.Values)
	assert.Equal(t, ScheduleImage{Found: true, HasAlt: true, Alt: "1/19 23:00～1/20 1:00"}, page.Image)
}

func TestHTMLReaderNoData(t *testing.T) {
	doc := `<html><body><div class="rsv_body_list"><p class="nodata">No data</p></div>
<div id="sec_availability"><table class="rsv_graph"><tbody><tr><td><img class="blank"></td></tr></tbody></table></div></body></html>`
	reader, err := NewHTMLReader("", strings.NewReader(doc))
	require.NoError(t, err)

	page, err := reader.ReadPage(context.Background())
	require.NoError(t, err)
	assert.True(t, page.NoData)
	assert.Empty(t, page.Labels)
	assert.True(t, page.Image.Blank)
	assert.True(t, page.Image.Found)
}
