package timestamp

import (
	"time"

	"go.uber.org/atomic"
)

var (
	// The value of frozen time that is used in all tests
	frozenTime = time.Date(2023, 04, 10, 12, 0, 0, 0, time.UTC)

	// Indicator shows that time was frozen or was not frozen
	timeFrozen = atomic.NewBool(false)
)

func Now() time.Time {
	if timeFrozen.Load() {
		return frozenTime
	}
	return time.Now().UTC()
}

func FreezeTime() {
	timeFrozen.Store(true)
}

func UnfreezeTime() {
	timeFrozen.Store(false)
}
