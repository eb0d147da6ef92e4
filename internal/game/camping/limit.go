package camping

// DefenceWarningThreshold is the defence total at which the game starts
// warning that extra defence is wasted.
const DefenceWarningThreshold = 10.0

// DefenceLimit is the sticky "defence limit reached" warning. It belongs to
// the caller's session: the calculators never read or write it.
//
// The warning latches the first time the current defence reaches
// DefenceWarningThreshold or exceeds the maximum, and stays on until the
// current defence drops below the value it latched at.
//
// The zero value is ready to use. DefenceLimit is not safe for concurrent use.
type DefenceLimit struct {
	limit  float64
	active bool
}

// Observe feeds the latest defence evaluation into the tracker.
//
// Postcondition: Returns whether the warning is active after d.
func (l *DefenceLimit) Observe(d Defence) bool {
	switch {
	case !l.active && (d.Current >= DefenceWarningThreshold || d.Current > d.Maximum):
		l.limit = d.Current
		l.active = true
	case l.active && d.Current < l.limit:
		l.limit = 0
		l.active = false
	}
	return l.active
}

// Limit returns the latched defence value and whether the warning is active.
func (l *DefenceLimit) Limit() (float64, bool) {
	return l.limit, l.active
}

// Reset clears the warning.
func (l *DefenceLimit) Reset() {
	*l = DefenceLimit{}
}
