package models

import (
	"fmt"
	"strconv"
	"time"
)

// Document is one record of a document store collection.
type Document struct {
	ID         string                 `json:"id"`
	Collection string                 `json:"collection"`
	Fields     map[string]interface{} `json:"fields"`
	Created_At time.Time              `json:"createdAt"`
}

// String returns the named field as a string, or fallback when the field is
// missing or empty.
func (d Document) String(key string, fallback string) string {
	v, ok := d.Fields[key]
	if !ok || v == nil {
		return fallback
	}
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case time.Time:
		s = val.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int, int64, bool:
		s = fmt.Sprint(val)
	default:
		return fallback
	}
	if s == "" {
		return fallback
	}
	return s
}

// Time reads a timestamp field stored either natively (Firestore) or as an
// RFC 3339 / plain date string (JSON backends).
func (d Document) Time(key string) (time.Time, bool) {
	switch val := d.Fields[key].(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Float reads a numeric field; JSON decoding yields float64, Firestore may
// yield int64.
func (d Document) Float(key string) (float64, bool) {
	switch val := d.Fields[key].(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	}
	return 0, false
}

func (d Document) Bool(key string) bool {
	b, _ := d.Fields[key].(bool)
	return b
}
