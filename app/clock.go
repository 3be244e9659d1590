package app

import "time"

// Clock tracks scaled application time and the fixed-step accumulator. It
// satisfies ecs.Clock, so worlds use it for timed waits.
type Clock struct {
	frame       uint64
	now         time.Duration
	delta       time.Duration
	scale       float64
	fixedStep   time.Duration
	accumulator time.Duration
	maxSteps    int
}

// NewClock creates a clock. maxSteps caps the fixed steps taken per frame;
// time beyond the cap is dropped.
func NewClock(fixedStep time.Duration, scale float64, maxSteps int) *Clock {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Clock{fixedStep: fixedStep, scale: scale, maxSteps: maxSteps}
}

// Advance moves the clock forward by one frame of real duration dt.
func (c *Clock) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	c.frame++
	c.delta = time.Duration(float64(dt) * c.scale)
	c.now += c.delta
	c.accumulator += c.delta
}

// FixedSteps consumes whole fixed steps from the accumulator and returns how
// many FixedUpdates are due this frame.
func (c *Clock) FixedSteps() int {
	if c.fixedStep <= 0 {
		return 0
	}
	n := 0
	for c.accumulator >= c.fixedStep {
		if n == c.maxSteps {
			c.accumulator %= c.fixedStep
			break
		}
		c.accumulator -= c.fixedStep
		n++
	}
	return n
}

// Alpha is the fraction of a fixed step left in the accumulator, for
// interpolating between physics states.
func (c *Clock) Alpha() float64 {
	if c.fixedStep <= 0 {
		return 0
	}
	return float64(c.accumulator) / float64(c.fixedStep)
}

func (c *Clock) Now() time.Duration       { return c.now }
func (c *Clock) Delta() time.Duration     { return c.delta }
func (c *Clock) Frame() uint64            { return c.frame }
func (c *Clock) Scale() float64           { return c.scale }
func (c *Clock) FixedStep() time.Duration { return c.fixedStep }

func (c *Clock) SetScale(s float64) {
	if s < 0 {
		s = 0
	}
	c.scale = s
}
