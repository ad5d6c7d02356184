package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DateTime is a time.Time that also accepts the date-only and zone-less
// strings browsers send from date inputs ("2025-03-01", "2025-03-01T09:30").
// Strings without a zone are read in local time.
type DateTime struct {
	time.Time
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func NewDateTime(t time.Time) DateTime { return DateTime{Time: t} }

// NewDateTimePtr is a convenience for optional fields.
func NewDateTimePtr(t time.Time) *DateTime {
	d := DateTime{Time: t}
	return &d
}

func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return d.Time.MarshalJSON()
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	raw, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("invalid date %s", s)
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DateTime) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

func (d *DateTime) Scan(v any) error {
	switch t := v.(type) {
	case nil:
		d.Time = time.Time{}
	case time.Time:
		d.Time = t
	case string:
		parsed, err := ParseDateTime(t)
		if err != nil {
			return err
		}
		d.Time = parsed
	case []byte:
		parsed, err := ParseDateTime(string(t))
		if err != nil {
			return err
		}
		d.Time = parsed
	default:
		return fmt.Errorf("cannot scan %T into DateTime", v)
	}
	return nil
}

func (DateTime) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "timestamptz"
	}
	return "datetime"
}
