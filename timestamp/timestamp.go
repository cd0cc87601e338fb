package timestamp

import (
	"strconv"
	"time"
)

// T is a convenience type for UNIX 64 bit timestamps of 1 second
// precision.
type T int64

// Now returns the current UNIX timestamp of the current second.
func Now() T { return T(time.Now().Unix()) }

// FromTime returns a T from a time.Time
func FromTime(t time.Time) T { return T(t.Unix()) }

// FromUnix converts from a standard int64 unix timestamp.
func FromUnix(t int64) T { return T(t) }

// Ptr returns a pointer to a copy of t, for optional fields such as filter bounds.
func (t T) Ptr() *T { return &t }

// I64 returns the timestamp as int64.
func (t T) I64() int64 { return int64(t) }

// U64 returns the timestamp as uint64.
func (t T) U64() uint64 { return uint64(t) }

// Int returns the timestamp as an int.
func (t T) Int() int { return int(t) }

// Time converts a timestamp.T value into a time.Time.
func (t T) Time() time.Time { return time.Unix(int64(t), 0) }

func (t T) String() string { return strconv.FormatInt(int64(t), 10) }

// Marshal appends the decimal JSON form of the timestamp to dst.
func (t T) Marshal(dst []byte) []byte { return strconv.AppendInt(dst, int64(t), 10) }
