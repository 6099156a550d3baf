package ports

import "time"

// Ticker delivers the periodic one-second tick that drives the countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock is the time source of the timer runner. Tests substitute a fake
// that fires ticks on demand.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}
