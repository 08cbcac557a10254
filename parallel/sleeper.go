package parallel

import "time"

// Default polling parameters.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultTimeout  = 3 * DefaultInterval
)

// Sleeper paces a polling loop and tells when it has run out of time.
type Sleeper struct {
	Interval time.Duration
	Timeout  time.Duration

	start time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

// NewSleeper returns a started Sleeper. A non-positive interval falls back to
// DefaultInterval; a non-positive timeout becomes three intervals.
func NewSleeper(interval, timeout time.Duration) *Sleeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = 3 * interval
	}
	s := &Sleeper{Interval: interval, Timeout: timeout, now: time.Now, sleep: time.Sleep}
	s.Reset()
	return s
}

// Reset restarts the timeout window.
func (s *Sleeper) Reset() { s.start = s.now() }

// Sleep waits one interval.
func (s *Sleeper) Sleep() { s.sleep(s.Interval) }

// Elapsed is the time since the last Reset.
func (s *Sleeper) Elapsed() time.Duration { return s.now().Sub(s.start) }

// TimedOut reports whether Timeout has passed since the last Reset.
func (s *Sleeper) TimedOut() bool { return s.Elapsed() >= s.Timeout }
