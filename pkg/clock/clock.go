package clock

import "time"

// Clock abstracts time.Now so overdue boundaries can be tested with
// arbitrary dates.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func New() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

type staticClock struct{ t time.Time }

// Static returns a clock frozen at t.
func Static(t time.Time) Clock { return staticClock{t: t} }

func (s staticClock) Now() time.Time { return s.t }
