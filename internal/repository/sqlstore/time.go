package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"time"
)

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// dbTime scans timestamps whether the driver hands back a time.Time or the
// text SQLite stored.
type dbTime struct {
	time.Time
}

func (t *dbTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported Scan type for timestamp: %T", value)
	}
}

func (t *dbTime) parse(s string) error {
	var err error
	for _, format := range timeFormats {
		var parsed time.Time
		parsed, err = time.Parse(format, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("failed to parse time string %q: %w", s, err)
}

func (t dbTime) Value() (driver.Value, error) {
	return t.Time.UTC(), nil
}
