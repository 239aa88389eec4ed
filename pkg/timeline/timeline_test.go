package timeline

import (
	"testing"
	"time"

	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	assert.Equal(t, 40.0, NewLayout(960).PxPerHour())
	assert.Equal(t, DefaultHeight, NewLayout(0).Height)
	assert.Equal(t, DefaultHeight, NewLayout(-5).Height)
}

func TestHourLines(t *testing.T) {
	lines := NewLayout(960).HourLines()
	require.Len(t, lines, 25)
	assert.Equal(t, HourLine{Hour: 0, Top: 0, Label: "0:00"}, lines[0])
	assert.Equal(t, HourLine{Hour: 24, Top: 960, Label: "24:00"}, lines[24])
	assert.Equal(t, 400.0, lines[10].Top)
}

func TestNowOffset(t *testing.T) {
	l := NewLayout(960)
	now := time.Date(2025, 1, 20, 13, 30, 45, 0, time.Local)
	assert.InDelta(t, 540.0, l.NowOffset(now), 1e-9)
	assert.Equal(t, 0.0, l.NowOffset(time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local)))
}

func TestBlockFor(t *testing.T) {
	l := NewLayout(960)

	t.Run("same day", func(t *testing.T) {
		b := l.BlockFor(reservation.Record{
			StartDate: "1/20", StartTime: "9:30", EndDate: "1/20", EndTime: "11:00",
			Name: "Sato", Lab: "Suga lab",
		})
		assert.Equal(t, 380.0, b.Top)
		assert.Equal(t, 60.0, b.Height)
		assert.Equal(t, 570, b.StartMin)
		assert.Equal(t, 660, b.EndMin)
		assert.Equal(t, "1/20", b.Date)
		assert.Equal(t, "#CD212A", b.Style.Background)
		assert.Equal(t, "Sato (Suga lab Lab) 9:30–11:00", b.Label())
		assert.Equal(t, "Sato (Suga lab)\n9:30–11:00", b.Title())
	})

	t.Run("crossing midnight is cut at 24:00", func(t *testing.T) {
		b := l.BlockFor(reservation.Record{
			StartDate: "1/20", StartTime: "22:00", EndDate: "1/21", EndTime: "2:00",
		})
		assert.Equal(t, 880.0, b.Top)
		assert.Equal(t, 80.0, b.Height)
		assert.Equal(t, 1320, b.StartMin)
		assert.Equal(t, 1440, b.EndMin)
		assert.Equal(t, "1/20", b.Date)
	})

	t.Run("end before start has zero height", func(t *testing.T) {
		b := l.BlockFor(reservation.Record{StartDate: "1/20", StartTime: "10:00", EndDate: "1/20", EndTime: "9:00"})
		assert.Equal(t, 0.0, b.Height)
	})
}

func TestCrossDayBlock(t *testing.T) {
	l := NewLayout(960)

	b, ok := l.CrossDayBlock("1/19 23:00～1/20 1:00")
	require.True(t, ok)
	assert.Equal(t, 0.0, b.Top)
	assert.Equal(t, 40.0, b.Height)
	assert.Equal(t, 0, b.StartMin)
	assert.Equal(t, 60, b.EndMin)
	assert.Equal(t, CrossDayName, b.Record.Name)
	assert.Equal(t, CrossDayLab, b.Record.Lab)
	assert.Equal(t, "1/20", b.Date)
	assert.Equal(t, DefaultStyle, b.Style)

	for _, alt := range []string{"", "空き", "1/20 9:00～10:00", "1/20 9:00 ～ 1/20 10:00"} {
		_, ok := l.CrossDayBlock(alt)
		assert.False(t, ok, "alt %q", alt)
	}
}

func TestBuild(t *testing.T) {
	l := NewLayout(960)

	t.Run("two reservations, one crossing midnight", func(t *testing.T) {
		records := []reservation.Record{
			{StartDate: "1/20", StartTime: "10:00", EndDate: "1/20", EndTime: "11:00", Name: "A", Lab: "Oguri"},
			{StartDate: "1/20", StartTime: "22:00", EndDate: "1/21", EndTime: "2:00", Name: "B", Lab: "Goda"},
		}
		v := l.Build(records, reservation.FacilityMetadata{FacilityName: "TEM"})
		assert.False(t, v.Empty)
		require.Len(t, v.Blocks, 2)
		assert.Equal(t, 1320, v.Blocks[1].StartMin)
		assert.Equal(t, 1440, v.Blocks[1].EndMin)
		assert.Equal(t, "Reservations (TEM)", v.Header())
	})

	t.Run("empty list with cross-day image", func(t *testing.T) {
		v := l.Build(nil, reservation.FacilityMetadata{FirstImgAlt: "1/19 23:00～1/20 1:00"})
		assert.True(t, v.Empty)
		require.Len(t, v.Blocks, 1)
		assert.Equal(t, 0, v.Blocks[0].StartMin)
		assert.Equal(t, 60, v.Blocks[0].EndMin)
	})

	t.Run("nothing stored", func(t *testing.T) {
		v := l.Build(nil, reservation.FacilityMetadata{})
		assert.True(t, v.Empty)
		assert.Empty(t, v.Blocks)
	})
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		lab  string
		want string
	}{
		{"Oguri Lab", "#5BCAF5"},
		{"Tsukuda", "#54D6A9"},
		{"Kobayashi group", "#0303EF"},
		{"Isobe", "#00AC00"},
		{"Suga-Yamada joint", "#CD212A"}, // table order, not position in the name
		{"Unknown", "#C0C0C0"},
		{"", "#C0C0C0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StyleFor(tt.lab).Background, tt.lab)
	}
}
