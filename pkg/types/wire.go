// Shared helpers for the compact JSON wire format. Every backup generation
// must stay decodable, so the helpers here absorb the representation drift
// between format revisions.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateWire is the layout for the dateRead field on disk.
const dateWire = "2006-01-02"

// dateEpoch anchors the numeric date representation: the earliest format
// revision stored dateRead as a bare number of seconds counted from
// 2001-01-01 UTC.
var dateEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// flexBool marshals as 0/1 and unmarshals from either JSON booleans or 0/1
// numbers. Older backups stored the prioritize* flags as integers; newer
// ones may use real booleans.
type flexBool bool

// MarshalJSON encodes the flag as 0 or 1 to match the established on-disk
// representation.
func (b flexBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts true/false, 0/1, and null (treated as unset).
func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true":
		*b = true
	case "false", "null":
		*b = false
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decoding boolean flag: %w", err)
		}
		*b = n != 0
	}
	return nil
}

// flexDate carries the dateRead wire value as a string. Current backups
// store a plain date, one revision stored full RFC 3339 timestamps, and the
// earliest stored a bare number of seconds from dateEpoch; a numeric value
// is converted to its timestamp form here so decodeDate sees one shape.
type flexDate string

// UnmarshalJSON accepts a date string, a numeric epoch offset, or null.
func (d *flexDate) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*d = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*d = flexDate(v)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	t := dateEpoch.Add(time.Duration(secs * float64(time.Second)))
	*d = flexDate(t.UTC().Format(time.RFC3339))
	return nil
}

// encodeDate renders an optional date for the wire. A nil date encodes as
// the empty string so omitempty drops the key entirely.
func encodeDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateWire)
}

// decodeDate parses an optional date from the wire. The empty string decodes
// to nil ("unknown"). Both the plain date layout and full RFC 3339
// timestamps are accepted; an earlier format revision stored timestamps.
func decodeDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateWire, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("decoding date %q: %w", s, err)
	}
	return &t, nil
}

// decodeReadStatus applies the read-status default and validates known
// values. A missing key decodes to NotRead; an unrecognized value is a
// decode failure, not a silent fallback.
func decodeReadStatus(s string) (string, error) {
	if s == "" {
		return StatusNotRead, nil
	}
	if !validReadStatuses[s] {
		return "", fmt.Errorf("%w: %q", ErrInvalidReadStatus, s)
	}
	return s, nil
}
