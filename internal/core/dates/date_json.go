package dates

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day that marshals as "YYYY-MM-DD". Request and response
// payloads use it so clients never deal with timestamps on date-only fields.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Day(t)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(Layout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	d.Time = t
	return nil
}
