package cursor

import "time"

// WithBlinkInterval sets the blink period. Non-positive values restore the
// default.
func (c Cursors) WithBlinkInterval(d time.Duration) Cursors {
	if d <= 0 {
		d = DefaultBlinkInterval
	}
	c.interval = d
	return c.resetBlink()
}

func (c Cursors) BlinkInterval() time.Duration {
	if c.interval <= 0 {
		return DefaultBlinkInterval
	}
	return c.interval
}

// Tick advances the blink clock by dt. The caller passes the real elapsed
// time, so visibility does not depend on the frame rate.
func (c Cursors) Tick(dt time.Duration) Cursors {
	if dt <= 0 {
		return c
	}
	period := 2 * c.BlinkInterval()
	c.elapsed = (c.elapsed + dt) % period
	return c
}

// Visible reports whether the cursors are in the "on" half of the blink cycle.
func (c Cursors) Visible() bool {
	return c.elapsed < c.BlinkInterval()
}

// FocusChanged resets the blink clock so the cursors show immediately.
func (c Cursors) FocusChanged() Cursors {
	return c.resetBlink()
}

func (c Cursors) resetBlink() Cursors {
	c.elapsed = 0
	return c
}
