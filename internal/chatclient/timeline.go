// internal/chatclient/timeline.go
package chatclient

import "time"

// groupWindow is the maximum gap between consecutive messages from the
// same sender that still renders as one visual group.
const groupWindow = 5 * time.Minute

// Row is one rendered line of a chat timeline: a message plus the
// presentation flags the view needs.
type Row struct {
	Message Message

	// DateLabel is non-empty when a date separator renders above this
	// row: the first message, and every calendar-day boundary after it.
	DateLabel string

	// GroupStart is true when this row opens a new visual group: sender
	// changed, more than groupWindow passed since the previous message,
	// or a date separator sits above it.
	GroupStart bool
}

// BuildTimeline derives presentation rows from an ordered log. Calendar
// days are evaluated in loc, the viewer's timezone; members in different
// timezones may legitimately see separators in different places.
func BuildTimeline(msgs []Message, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}

	rows := make([]Row, 0, len(msgs))
	for i, m := range msgs {
		row := Row{Message: m}

		local := m.CreatedAt.In(loc)
		if i == 0 || !sameDay(local, msgs[i-1].CreatedAt.In(loc)) {
			row.DateLabel = local.Format("January 2, 2006")
			row.GroupStart = true
		} else {
			prev := msgs[i-1]
			if prev.SenderID != m.SenderID || prev.SenderID == "" ||
				m.CreatedAt.Sub(prev.CreatedAt) > groupWindow {
				row.GroupStart = true
			}
		}

		rows = append(rows, row)
	}
	return rows
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
