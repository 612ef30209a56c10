package analytics

import (
	"time"

	"github.com/rpggio/worklog/internal/domain/session"
)

// interval is the part of a session that falls inside a window.
type interval struct {
	sess  *session.Session
	start time.Time
	end   time.Time
}

func (iv interval) length() time.Duration {
	return iv.end.Sub(iv.start)
}

// clip restricts sess to [from, to). Open sessions run until now. A
// zero-length session belongs to the window containing its start.
// Bounds are truncated to whole seconds so the per-window seconds of a
// session always add up to its total.
func clip(sess *session.Session, from, to, now time.Time) (interval, bool) {
	start := sess.StartTime.Truncate(time.Second)
	end := now
	if sess.EndTime != nil {
		end = *sess.EndTime
	}
	end = end.Truncate(time.Second)
	if end.Before(start) {
		end = start
	}

	if end.Equal(start) {
		in := !start.Before(from) && start.Before(to)
		return interval{sess: sess, start: start, end: start}, in
	}

	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if !end.After(start) {
		return interval{}, false
	}
	return interval{sess: sess, start: start, end: end}, true
}

func clipAll(sessions []session.Session, from, to, now time.Time) []interval {
	var out []interval
	for i := range sessions {
		if iv, ok := clip(&sessions[i], from, to, now); ok {
			out = append(out, iv)
		}
	}
	return out
}

// days lists local midnights from first through last inclusive.
func days(first, last time.Time) []time.Time {
	var out []time.Time
	for d := first; !d.After(last); d = nextDay(d) {
		out = append(out, d)
	}
	return out
}

// nextDay returns the following local midnight, so DST days span 23 or 25
// hours.
func nextDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day+1, 0, 0, 0, 0, d.Location())
}
