package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SentinelDate is a date column whose source encodes "no date" as the literal
// zero date ('0000-00-00 00:00:00') instead of NULL. Both encodings scan to
// an absent value; date arithmetic downstream must never see the zero date as
// a real calendar date.
type SentinelDate struct {
	Time  time.Time
	Valid bool
}

func NewSentinelDate(t time.Time) SentinelDate {
	return SentinelDate{Time: t, Valid: true}
}

func (d *SentinelDate) Scan(value interface{}) error {
	d.Time, d.Valid = time.Time{}, false
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		// go-sql-driver maps zero dates to the zero time.Time under
		// parseTime=true.
		if isSentinel(v) {
			return nil
		}
		d.Time, d.Valid = v, true
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into SentinelDate", value)
	}
}

func (d *SentinelDate) scanString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			if isSentinel(t) {
				return nil
			}
			d.Time, d.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as SentinelDate", s)
}

func (d SentinelDate) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Time, nil
}

// Ptr returns the date as *time.Time, nil when absent.
func (d SentinelDate) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// InMonth reports whether the date is present and falls in the given year
// and month. An absent date never matches any window.
func (d SentinelDate) InMonth(year int, month time.Month) bool {
	if !d.Valid {
		return false
	}
	return d.Time.Year() == year && d.Time.Month() == month
}

func (d SentinelDate) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time)
}

func (d *SentinelDate) UnmarshalJSON(b []byte) error {
	d.Time, d.Valid = time.Time{}, false
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &d.Time); err != nil {
		return err
	}
	d.Valid = !isSentinel(d.Time)
	return nil
}

func isSentinel(t time.Time) bool {
	return t.IsZero() || t.Year() <= 1
}
