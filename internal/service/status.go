package service

import "parkscan/internal/db"

// Derived reservation statuses. Status is never stored (see migration
// 3_remove_stored_status); it is recomputed from the log history on
// every read so it cannot drift.
const (
	StatusPending    = "pending"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
)

// DeriveStatus computes a reservation's status from its check-in log
// history: no logs means pending, otherwise the event with the latest
// timestamp wins. The input may be in any order.
func DeriveStatus(logs []db.CheckInLog) string {
	if len(logs) == 0 {
		return StatusPending
	}
	latest := logs[0]
	for _, l := range logs[1:] {
		if l.EventTime.After(latest.EventTime) {
			latest = l
		}
	}
	if latest.EventType == db.EventCheckOut {
		return StatusCheckedOut
	}
	return StatusCheckedIn
}
