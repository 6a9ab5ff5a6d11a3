package ageing

import (
	"testing"
	"time"

	"github.com/Veraticus/ageing-report/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSerial_MatchesSpreadsheetSerials(t *testing.T) {
	tests := []struct {
		date time.Time
		name string
		want int
	}{
		{name: "epoch", date: date(1899, time.December, 30), want: 0},
		{name: "first of march 1900", date: date(1900, time.March, 1), want: 61},
		{name: "new year 2024", date: date(2024, time.January, 1), want: 45292},
		{name: "leap day 2024", date: date(2024, time.February, 29), want: 45351},
		{name: "report date", date: date(2024, time.February, 1), want: 45323},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Serial(tt.date))
		})
	}
}

func TestSerial_TruncatesTimeOfDay(t *testing.T) {
	morning := time.Date(2024, time.January, 10, 0, 0, 1, 0, time.UTC)
	night := time.Date(2024, time.January, 10, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, Serial(date(2024, time.January, 10)), Serial(morning))
	assert.Equal(t, Serial(morning), Serial(night))
}

func TestSerial_UsesCivilDateOfLocation(t *testing.T) {
	colombo := time.FixedZone("Asia/Colombo", 5*3600+1800)
	lateEvening := time.Date(2024, time.January, 10, 23, 30, 0, 0, colombo)

	// 18:00 UTC on the same day, but the calendar date in Colombo is what counts.
	assert.Equal(t, 45301, Serial(lateEvening))
}

func TestFromSerial(t *testing.T) {
	assert.Equal(t, date(2024, time.January, 1), FromSerial(45292))
	assert.Equal(t, date(2024, time.January, 1), FromSerial(45292.75))
	assert.Equal(t, Epoch, FromSerial(0))
}

func TestDays(t *testing.T) {
	doc := date(2024, time.January, 10)

	got := Days(&doc, date(2024, time.February, 1))
	require.NotNil(t, got)
	assert.Equal(t, 22, *got)

	assert.Nil(t, Days(nil, date(2024, time.February, 1)))
}

func TestDays_GrowsByOnePerDay(t *testing.T) {
	doc := date(2023, time.December, 25)
	today := date(2024, time.February, 27)

	prev := Days(&doc, today)
	require.NotNil(t, prev)
	for i := 1; i <= 10; i++ {
		next := Days(&doc, today.AddDate(0, 0, i))
		require.NotNil(t, next)
		assert.Equal(t, *prev+1, *next, "day %d", i)
		assert.Equal(t, Serial(today.AddDate(0, 0, i))-Serial(doc), *next)
		prev = next
	}
}

func TestCompute(t *testing.T) {
	doc := date(2024, time.January, 1)
	records := []model.DocumentRecord{
		{Account: "100", DocumentDate: &doc},
		{Account: "100"},
	}

	Compute(records, date(2024, time.February, 1))

	require.NotNil(t, records[0].DocSerial)
	require.NotNil(t, records[0].DocAgeing)
	assert.Equal(t, 45292, *records[0].DocSerial)
	assert.Equal(t, 31, *records[0].DocAgeing)
	assert.True(t, records[0].HasAgeing())

	assert.Nil(t, records[1].DocSerial)
	assert.Nil(t, records[1].DocAgeing)
	assert.False(t, records[1].HasAgeing())
}
