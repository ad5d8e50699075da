package config

import (
	"fmt"
	"time"
)

// dayLayout is the business-day key format used in sale numbers,
// the sale_counters table, and every daily aggregate.
const dayLayout = "20060102"

// Calendar defines the shop's business day: the shop timezone plus a
// cutoff shifting the day boundary past midnight. A shop open until
// 1 a.m. sets a 1-2 hour cutoff so late sales book to the prior day.
//
// The same Calendar instance feeds the sale-number allocator, the cash
// book and the reports, so all three agree on what "today" means.
type Calendar struct {
	loc    *time.Location
	cutoff time.Duration
}

// NewCalendar builds a Calendar for an IANA timezone name and a cutoff
// in whole hours after midnight.
func NewCalendar(tz string, cutoffHours int) (*Calendar, error) {
	if cutoffHours < 0 || cutoffHours > 12 {
		return nil, fmt.Errorf("day cutoff must be between 0 and 12 hours, got %d", cutoffHours)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return &Calendar{loc: loc, cutoff: time.Duration(cutoffHours) * time.Hour}, nil
}

// DayOf returns the business-day key (YYYYMMDD) the instant belongs to.
func (c *Calendar) DayOf(t time.Time) string {
	return t.In(c.loc).Add(-c.cutoff).Format(dayLayout)
}

// Today returns the current business-day key.
func (c *Calendar) Today() string {
	return c.DayOf(time.Now())
}

// DayBounds returns the half-open interval [start, end) of wall-clock
// time covered by a business-day key. The end is the next calendar
// day's midnight plus the cutoff, so adjacent days share a boundary
// even when a DST shift makes the day 23 or 25 hours long.
func (c *Calendar) DayBounds(day string) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation(dayLayout, day, c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid day %q (want YYYYMMDD): %w", day, err)
	}
	return d.Add(c.cutoff), d.AddDate(0, 0, 1).Add(c.cutoff), nil
}

// NextDay returns the day key immediately after day.
func (c *Calendar) NextDay(day string) (string, error) {
	d, err := time.ParseInLocation(dayLayout, day, c.loc)
	if err != nil {
		return "", fmt.Errorf("invalid day %q (want YYYYMMDD): %w", day, err)
	}
	return d.AddDate(0, 0, 1).Format(dayLayout), nil
}
