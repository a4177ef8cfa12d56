package repository

import "ar-dashboard/internal/domain"

type ReceivableOrder int

const (
	ReceivablesNewestFirst ReceivableOrder = iota
	ReceivablesByDueDate
)

type ReceivablesFilter struct {
	CustomerID *string
	Status     *domain.ReceivableStatus
	Order      ReceivableOrder
}

type FollowUpOrder int

const (
	FollowUpsBySchedule FollowUpOrder = iota
	FollowUpsOldestFirst
)

type FollowUpsFilter struct {
	ReceivableID  *string
	ScheduledDate *domain.Date
	Completed     *bool
	Order         FollowUpOrder
}

// DueOn selects open follow-ups scheduled for day, oldest first.
func DueOn(day domain.Date) FollowUpsFilter {
	completed := false
	return FollowUpsFilter{
		ScheduledDate: &day,
		Completed:     &completed,
		Order:         FollowUpsOldestFirst,
	}
}
