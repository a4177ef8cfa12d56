package domain

import "time"

type ContactMethod string

const (
	MethodCall  ContactMethod = "call"
	MethodEmail ContactMethod = "email"
	MethodVisit ContactMethod = "visit"
)

func (m ContactMethod) Valid() bool {
	switch m {
	case MethodCall, MethodEmail, MethodVisit:
		return true
	}
	return false
}

type FollowUp struct {
	ID            string         `json:"id"`
	ReceivableID  string         `json:"receivable_id"`
	ScheduledDate Date           `json:"scheduled_date"`
	Completed     bool           `json:"completed"`
	CompletedDate *Date          `json:"completed_date"`
	ContactedBy   *string        `json:"contacted_by"`
	Method        *ContactMethod `json:"method"`
	Notes         *string        `json:"notes"`
	NextFollowUp  *Date          `json:"next_follow_up"`
	CreatedAt     time.Time      `json:"created_at"`
}

// IsDue reports whether the follow-up is scheduled for today and still open.
func (f FollowUp) IsDue(today Date) bool {
	return !f.Completed && f.ScheduledDate.Equal(today)
}

type NewFollowUp struct {
	ID            *string        `json:"id,omitempty" validate:"omitempty,uuid"`
	ReceivableID  string         `json:"receivable_id" validate:"required"`
	ScheduledDate Date           `json:"scheduled_date"`
	Completed     bool           `json:"completed"`
	CompletedDate *Date          `json:"completed_date,omitempty"`
	ContactedBy   *string        `json:"contacted_by,omitempty" validate:"omitempty,max=255"`
	Method        *ContactMethod `json:"method,omitempty" validate:"omitempty,oneof=call email visit"`
	Notes         *string        `json:"notes,omitempty"`
	NextFollowUp  *Date          `json:"next_follow_up,omitempty"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
}
