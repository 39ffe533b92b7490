// Package dateseq provides date-sequence generation and alignment validation
// for tables sampled at a fixed frequency.
package dateseq

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidFrequency is returned when a frequency string cannot be parsed
	ErrInvalidFrequency = errors.New("invalid frequency")
	// ErrDateAlignment is returned when a date sequence is not strictly
	// increasing at the stated frequency
	ErrDateAlignment = errors.New("date sequence is not aligned to frequency")
)

// Unit is a calendar or clock unit for a sampling frequency.
type Unit string

// Supported frequency units
const (
	UnitMinute  Unit = "minute"
	UnitHour    Unit = "hour"
	UnitDay     Unit = "day"
	UnitWeek    Unit = "week"
	UnitMonth   Unit = "month"
	UnitQuarter Unit = "quarter"
	UnitYear    Unit = "year"
)

// Frequency is a fixed sampling interval such as "1 month" or "2 week".
type Frequency struct {
	Count int
	Unit  Unit
}

// ParseFrequency parses an interval string of the form "<count> <unit>",
// where the count is optional and defaults to 1 and the unit may be singular
// or plural ("1 month", "months", "3 days").
func ParseFrequency(s string) (Frequency, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))

	var (
		count   = 1
		unitRaw string
		err     error
	)

	switch len(fields) {
	case 1:
		unitRaw = fields[0]
	case 2:
		count, err = strconv.Atoi(fields[0])
		if err != nil || count <= 0 {
			return Frequency{}, fmt.Errorf("%w: bad count in %q", ErrInvalidFrequency, s)
		}
		unitRaw = fields[1]
	default:
		return Frequency{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}

	unit := Unit(strings.TrimSuffix(unitRaw, "s"))
	switch unit {
	case UnitMinute, UnitHour, UnitDay, UnitWeek, UnitMonth, UnitQuarter, UnitYear:
		return Frequency{Count: count, Unit: unit}, nil
	default:
		return Frequency{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidFrequency, unitRaw)
	}
}

// String returns the canonical interval string.
func (f Frequency) String() string {
	return fmt.Sprintf("%d %s", f.Count, f.Unit)
}

// Add advances a timestamp by the given number of frequency steps. Steps may
// be zero; negative steps move backwards.
func (f Frequency) Add(t time.Time, steps int) time.Time {
	n := f.Count * steps

	switch f.Unit {
	case UnitMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case UnitHour:
		return t.Add(time.Duration(n) * time.Hour)
	case UnitDay:
		return t.AddDate(0, 0, n)
	case UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case UnitMonth:
		return addMonths(t, n)
	case UnitQuarter:
		return addMonths(t, 3*n)
	case UnitYear:
		return addMonths(t, 12*n)
	default:
		return t
	}
}

// addMonths advances by whole months, clamping to the last day of the target
// month: a month-end anchor stays at month end instead of normalizing into
// the following month (Jan 31 plus one month is Feb 29, not Mar 2).
func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}

	return first.AddDate(0, 0, day-1)
}

// Generate produces an ordered sequence of n dates starting at start and
// advancing one frequency step per element.
func Generate(start time.Time, n int, freq Frequency) []time.Time {
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, freq.Add(start, i))
	}

	return dates
}

// Validate checks that a date sequence is strictly increasing and that every
// element sits exactly i frequency steps past the first. Anchoring at the
// first date matches Generate: a month-end start stays valid even when
// intermediate months are shorter than the anchor day, where a stepwise check
// would drift through the clamped dates.
func Validate(dates []time.Time, freq Frequency) error {
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return fmt.Errorf("%w: dates not strictly increasing at index %d", ErrDateAlignment, i)
		}

		if expected := freq.Add(dates[0], i); !dates[i].Equal(expected) {
			return fmt.Errorf("%w: expected %s at index %d, got %s",
				ErrDateAlignment, expected.Format(time.RFC3339), i, dates[i].Format(time.RFC3339))
		}
	}

	return nil
}
