package domain

import "time"

// The simulation advances at a fixed rate. Most gameplay periods are
// expressed in whole seconds and converted with TicksFromSecs.
const (
	TickPeriod     = 500 * time.Millisecond
	TicksPerSecond = uint32(time.Second / TickPeriod)
	TickPeriodSecs = float64(TickPeriod) / float64(time.Second)
)

// Ticks is a wrapping counter of simulation steps.
type Ticks uint16

func TicksFromSecs(secs uint32) Ticks {
	v := secs * TicksPerSecond
	if v > 0xffff {
		v = 0xffff
	}
	return Ticks(v)
}

func (t Ticks) WholeSecs() uint32 {
	return uint32(t) / TicksPerSecond
}

func (t Ticks) WrappingAdd(o Ticks) Ticks {
	return t + o
}

func (t Ticks) SaturatingAdd(o Ticks) Ticks {
	if s := t + o; s >= t {
		return s
	}
	return 0xffff
}

func (t Ticks) SaturatingSub(o Ticks) Ticks {
	if o > t {
		return 0
	}
	return t - o
}

func (t Ticks) CheckedSub(o Ticks) (Ticks, bool) {
	if o > t {
		return 0, false
	}
	return t - o, true
}

// Every reports whether a period elapses on this tick. A zero period
// never elapses.
func (t Ticks) Every(period Ticks) bool {
	return period != 0 && t%period == 0
}

func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * TickPeriod
}
