package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day.
// It wraps gorm.io/datatypes.Date for storage and encodes as "YYYY-MM-DD" in JSON.
type Date struct {
	datatypes.Date
}

// NewDate returns the date at UTC midnight
func NewDate(year int, month time.Month, day int) Date {
	return Date{datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))}
}

// ParseDate parses a "YYYY-MM-DD" string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Time returns the date as a time.Time at midnight
func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

// IsZero reports whether the date was never set
func (d Date) IsZero() bool {
	return d.Time().IsZero()
}

// Before reports whether d is a calendar day before other
func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Date: expected a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}

	// Accept full timestamps too, keeping only the calendar day
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*d = NewDate(t.Year(), t.Month(), t.Day())
			return nil
		}
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value promotes the embedded Date's Value method
func (d Date) Value() (driver.Value, error) {
	return d.Date.Value()
}

// Scan promotes the embedded Date's Scan method
func (d *Date) Scan(value interface{}) error {
	return d.Date.Scan(value)
}

// GormDataType is the generic data type used by migrations
func (Date) GormDataType() string {
	return "date"
}
