// Package ageing converts document dates into spreadsheet day serials and
// computes how many days old a document is on the report date.
package ageing

import (
	"math"
	"time"

	"github.com/Veraticus/ageing-report/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// Epoch is day zero of the spreadsheet 1900 date system as seen from any
// date after February 1900.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// CivilDate drops the time of day, keeping the calendar date of t in its own location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Serial returns the number of days between Epoch and the calendar date of t.
func Serial(t time.Time) int {
	return int((CivilDate(t).Unix() - Epoch.Unix()) / secondsPerDay)
}

// FromSerial converts a spreadsheet serial back into a calendar date.
// The fractional part is a time of day and is discarded.
func FromSerial(serial float64) time.Time {
	return Epoch.AddDate(0, 0, int(math.Floor(serial)))
}

// Days returns serial(today) - serial(date), or nil when date is nil.
func Days(date *time.Time, today time.Time) *int {
	if date == nil {
		return nil
	}
	days := Serial(today) - Serial(*date)
	return &days
}

// Compute fills DocSerial and DocAgeing on every record. Records without a
// date keep nil values.
func Compute(records []model.DocumentRecord, today time.Time) {
	for i := range records {
		r := &records[i]
		if r.DocumentDate == nil {
			r.DocSerial = nil
			r.DocAgeing = nil
			continue
		}
		serial := Serial(*r.DocumentDate)
		r.DocSerial = &serial
		r.DocAgeing = Days(r.DocumentDate, today)
	}
}
