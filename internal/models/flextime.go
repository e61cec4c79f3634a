package models

import (
	"strconv"
	"time"

	"github.com/avelichko/crmdesk/internal/timeutil"
)

// FlexTime is an epoch-millisecond instant decoded from whatever timestamp
// representation the backend sends: epoch seconds, epoch milliseconds, or an
// ISO-like string with or without a timezone. Decoding never fails; unknown
// or malformed values become the 0 sentinel so one bad record cannot break a
// whole feed.
type FlexTime int64

// UnmarshalJSON implements json.Unmarshaler. It is intentionally total.
func (t *FlexTime) UnmarshalJSON(b []byte) error {
	*t = FlexTime(timeutil.ParseJSON(b))
	return nil
}

// MarshalJSON encodes the normalized instant as epoch milliseconds.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(t), 10)), nil
}

// Ms returns the instant as epoch milliseconds (0 = unknown).
func (t FlexTime) Ms() int64 { return int64(t) }

// IsZero reports whether the instant is the unknown sentinel.
func (t FlexTime) IsZero() bool { return t == 0 }

// Time converts to a time.Time. Only meaningful when not zero.
func (t FlexTime) Time() time.Time { return time.UnixMilli(int64(t)) }
