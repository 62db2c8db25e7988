package snapshotter

type cycleMetrics struct {
	bills           int
	newBills        int
	changedBills    int
	tenants         int
	motdSent        int
	messagesQueued  int
	failedTenants   int
	meetingsChanged int
}

func (m *cycleMetrics) fields() []any {
	args := []any{"bills", m.bills, "tenants", m.tenants}
	if m.newBills != 0 {
		args = append(args, "new_bills", m.newBills)
	}
	if m.changedBills != 0 {
		args = append(args, "changed_bills", m.changedBills)
	}
	if m.meetingsChanged != 0 {
		args = append(args, "meeting_updates", m.meetingsChanged)
	}
	if m.motdSent != 0 {
		args = append(args, "motd_sent", m.motdSent)
	}
	if m.messagesQueued != 0 {
		args = append(args, "messages", m.messagesQueued)
	}
	if m.failedTenants != 0 {
		args = append(args, "failed_tenants", m.failedTenants)
	}
	return args
}
