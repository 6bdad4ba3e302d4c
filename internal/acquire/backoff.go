package acquire

import (
	"math"
	"time"
)

// Backoff computes exponential delays with proportional jitter:
// min(Base*2^attempt, Cap) plus a uniform extra of up to JitterFraction of
// that value.
type Backoff struct {
	Base           time.Duration
	Cap            time.Duration
	JitterFraction float64
}

// DefaultBackoff returns the 2s base, 60s cap, 10% jitter schedule.
func DefaultBackoff() Backoff {
	return Backoff{Base: 2 * time.Second, Cap: 60 * time.Second, JitterFraction: 0.1}
}

// Delay returns the wait before retry number attempt (0-based). rnd must
// return values in [0,1).
func (b Backoff) Delay(attempt int, rnd func() float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(b.Base) * math.Pow(2, float64(attempt))
	if b.Cap > 0 && delay > float64(b.Cap) {
		delay = float64(b.Cap)
	}
	if rnd != nil && b.JitterFraction > 0 {
		delay += rnd() * b.JitterFraction * delay
	}
	return time.Duration(delay)
}

// uniformDuration returns a duration in [lo, hi) using rnd.
func uniformDuration(lo, hi time.Duration, rnd func() float64) time.Duration {
	if hi <= lo || rnd == nil {
		return lo
	}
	return lo + time.Duration(rnd()*float64(hi-lo))
}
