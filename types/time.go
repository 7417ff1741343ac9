package types

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var errUnhandledTimestamp = errors.New("unhandled timestamp precision")

// Time decodes exchange timestamps given as Unix seconds, milliseconds,
// microseconds or nanoseconds, either bare or quoted. A single decimal point
// is folded into the digit count, e.g. `1726104395.5` decodes as milliseconds.
type Time time.Time

// UnmarshalJSON implements json.Unmarshaler
func (t *Time) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(data, `"`)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("0")) {
		*t = Time{}
		return nil
	}

	digits := raw
	if dot := bytes.IndexByte(raw, '.'); dot != -1 {
		digits = append(append(make([]byte, 0, len(raw)-1), raw[:dot]...), raw[dot+1:]...)
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("cannot unmarshal %s into Time: %w", data, strconv.ErrSyntax)
	}

	// digit count selects the precision
	switch len(digits) {
	case 10:
		*t = Time(time.Unix(n, 0))
	case 11:
		*t = Time(time.UnixMilli(n * 100))
	case 12:
		*t = Time(time.UnixMilli(n * 10))
	case 13:
		*t = Time(time.UnixMilli(n))
	case 14:
		*t = Time(time.UnixMicro(n * 100))
	case 15:
		*t = Time(time.UnixMicro(n * 10))
	case 16:
		*t = Time(time.UnixMicro(n))
	case 17:
		*t = Time(time.Unix(0, n*100))
	case 18:
		*t = Time(time.Unix(0, n*10))
	case 19:
		*t = Time(time.Unix(0, n))
	default:
		return fmt.Errorf("cannot unmarshal %s into Time: %w", data, errUnhandledTimestamp)
	}
	return nil
}

// MarshalJSON encodes the time as Unix seconds, 0 when unset
func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time().IsZero() {
		return []byte("0"), nil
	}
	return strconv.AppendInt(nil, t.Time().Unix(), 10), nil
}

// Time returns the underlying time.Time
func (t Time) Time() time.Time { return time.Time(t) }

// String implements fmt.Stringer
func (t Time) String() string { return t.Time().String() }
