package models

// ProjectMeetings derives a tenant's candidate meeting snapshot from the
// upstream meeting list. Only agenda items the tenant tracks are kept; when
// several meetings list the same bill, the later one in the list wins.
func ProjectMeetings(meetings []RawMeeting, tracked map[string]bool) MeetingSnapshot {
	snap := make(MeetingSnapshot)
	for _, rm := range meetings {
		for _, bill := range rm.Agenda {
			if tracked[bill] {
				snap[bill] = rm.Join(bill)
			}
		}
	}
	return snap
}
