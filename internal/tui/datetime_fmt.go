package tui

import "time"

// formatDueDate renders a due date compactly. Date-only dues are stored as
// midnight UTC, so those render without a time component (and without a
// timezone shift that would move them to the previous day).
func formatDueDate(t time.Time) string {
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 {
		return u.Format("Jan 2, 2006")
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}
