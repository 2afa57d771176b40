package domain

import "fmt"

// Interval kline period accepted by the exchange.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval60m Interval = "60m"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
	Interval1W  Interval = "1W"
	Interval1M  Interval = "1M"
)

// Intervals lists every supported interval in ascending order.
var Intervals = []Interval{
	Interval1m, Interval5m, Interval15m, Interval30m, Interval60m,
	Interval4h, Interval1d, Interval1W, Interval1M,
}

// ParseInterval validates s against the supported set.
func ParseInterval(s string) (Interval, error) {
	for _, iv := range Intervals {
		if string(iv) == s {
			return iv, nil
		}
	}

	return "", fmt.Errorf("unsupported interval %q", s)
}

func (i Interval) String() string {
	return string(i)
}
