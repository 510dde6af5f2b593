package utils

import "time"

// NowNano returns the current time as nanoseconds since Unix epoch.
// Wall-clock nanos keep timestamps portable across processes.
func NowNano() int64 {
	return time.Now().UnixNano()
}
