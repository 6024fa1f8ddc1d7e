package utils

import (
	"time"
)

// PrettyDate formats a timestamp for human readable messages.
func PrettyDate(t time.Time) string {
	return t.Format("02 Jan 2006 15:04:05 MST")
}
