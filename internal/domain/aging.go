package domain

// AgingDays is the number of whole days today is past due, floored at zero.
func AgingDays(due, today Date) int {
	if due.IsZero() {
		return 0
	}
	days := today.DaysSince(due)
	if days < 0 {
		return 0
	}
	return days
}

// DeriveStatus maps aging to pending/overdue. A stored paid status is terminal
// and is never recomputed.
func DeriveStatus(stored ReceivableStatus, agingDays int) ReceivableStatus {
	if stored == StatusPaid {
		return StatusPaid
	}
	if agingDays > 0 {
		return StatusOverdue
	}
	return StatusPending
}

type AgingBucket string

const (
	Bucket0To30  AgingBucket = "0-30"
	Bucket31To60 AgingBucket = "31-60"
	Bucket61To90 AgingBucket = "61-90"
	Bucket90Plus AgingBucket = "90+"
)

// AgingBuckets lists the buckets from least to most severe.
var AgingBuckets = []AgingBucket{Bucket0To30, Bucket31To60, Bucket61To90, Bucket90Plus}

// BucketFor places aging days into [0,30], [31,60], [61,90] or [91,∞).
func BucketFor(agingDays int) AgingBucket {
	switch {
	case agingDays <= 30:
		return Bucket0To30
	case agingDays <= 60:
		return Bucket31To60
	case agingDays <= 90:
		return Bucket61To90
	default:
		return Bucket90Plus
	}
}
