package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day stored as Unix milliseconds at UTC midnight.
type Date int64

const (
	msPerDay         = 86400000
	excelSerialLabel = "serial:"
	dateLayout       = "2006-01-02"
)

// excelEpoch is 1899-12-30 UTC, the zero of spreadsheet serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC).UnixMilli()

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).UnixMilli())
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// Time returns the instant the Date represents, in UTC.
func (d Date) Time() time.Time {
	return time.UnixMilli(int64(d)).UTC()
}

// Timestamp returns the raw millisecond value.
func (d Date) Timestamp() int64 {
	return int64(d)
}

func (d Date) IsZero() bool {
	return d == 0
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// ExcelSerial converts the date to a spreadsheet serial day number.
func (d Date) ExcelSerial() float64 {
	return float64(int64(d)-excelEpoch) / msPerDay
}

// FromExcelSerial converts a spreadsheet serial day number to a Date.
func FromExcelSerial(serial float64) Date {
	return Date(excelEpoch + int64(math.Round(serial*msPerDay)))
}

// ParseDate accepts "YYYY-MM-DD", a Unix millisecond timestamp,
// or a spreadsheet serial prefixed with "serial:".
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrZeroDate
	}
	if rest, ok := strings.CutPrefix(s, excelSerialLabel); ok {
		serial, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid serial date %q: %w", s, err)
		}
		return FromExcelSerial(serial), nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Date(ms), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// UnmarshalJSON accepts a millisecond number or any string ParseDate accepts.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseDate(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	*d = Date(int64(ms))
	return nil
}
