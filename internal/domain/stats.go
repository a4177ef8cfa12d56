package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AgingTotals holds balance sums per aging bucket.
type AgingTotals struct {
	Days0To30  decimal.Decimal `json:"0-30"`
	Days31To60 decimal.Decimal `json:"31-60"`
	Days61To90 decimal.Decimal `json:"61-90"`
	Over90     decimal.Decimal `json:"90+"`
}

func (a *AgingTotals) Add(b AgingBucket, amount decimal.Decimal) {
	switch b {
	case Bucket0To30:
		a.Days0To30 = a.Days0To30.Add(amount)
	case Bucket31To60:
		a.Days31To60 = a.Days31To60.Add(amount)
	case Bucket61To90:
		a.Days61To90 = a.Days61To90.Add(amount)
	case Bucket90Plus:
		a.Over90 = a.Over90.Add(amount)
	}
}

func (a AgingTotals) Get(b AgingBucket) decimal.Decimal {
	switch b {
	case Bucket0To30:
		return a.Days0To30
	case Bucket31To60:
		return a.Days31To60
	case Bucket61To90:
		return a.Days61To90
	case Bucket90Plus:
		return a.Over90
	}
	return decimal.Zero
}

func (a AgingTotals) Sum() decimal.Decimal {
	return a.Days0To30.Add(a.Days31To60).Add(a.Days61To90).Add(a.Over90)
}

type DashboardStats struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	OverdueCount     int             `json:"overdue_count"`
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
	CollectionRate   decimal.Decimal `json:"collection_rate"`
	AverageAgingDays int             `json:"average_aging_days"`
	ReceivableCount  int             `json:"receivable_count"`
	FollowUpsDue     int             `json:"follow_ups_due"`
	AgingBuckets     AgingTotals     `json:"aging_buckets"`
}

// ComputeStats aggregates already-enriched receivables and the follow-ups due today.
func ComputeStats(receivables []Receivable, followUps []FollowUp, today Date) DashboardStats {
	var (
		stats     DashboardStats
		invoiced  = decimal.Zero
		agingDays int
	)

	for _, r := range receivables {
		stats.TotalOutstanding = stats.TotalOutstanding.Add(r.BalanceDue)
		stats.AgingBuckets.Add(BucketFor(r.AgingDays), r.BalanceDue)
		if r.Status == StatusOverdue {
			stats.OverdueCount++
			stats.OverdueAmount = stats.OverdueAmount.Add(r.BalanceDue)
		}
		invoiced = invoiced.Add(r.OriginalAmount)
		agingDays += r.AgingDays
	}

	stats.ReceivableCount = len(receivables)
	if len(receivables) > 0 {
		stats.AverageAgingDays = int(decimal.NewFromInt(int64(agingDays)).
			Div(decimal.NewFromInt(int64(len(receivables)))).
			Round(0).IntPart())
	}
	if invoiced.IsPositive() {
		stats.CollectionRate = invoiced.Sub(stats.TotalOutstanding).Div(invoiced).Round(4)
	}

	stats.FollowUpsDue = len(DueFollowUps(followUps, today))
	return stats
}

// DueFollowUps keeps open follow-ups scheduled for today, oldest first.
func DueFollowUps(followUps []FollowUp, today Date) []FollowUp {
	due := make([]FollowUp, 0, len(followUps))
	for _, f := range followUps {
		if f.IsDue(today) {
			due = append(due, f)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})
	return due
}
