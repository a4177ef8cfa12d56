package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ar-dashboard/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receipts(rs []domain.Receivable) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ReceiptNumber
	}
	return out
}

func TestOverview_DemoFallback(t *testing.T) {
	d := newDashboard(nil, "BACKEND_URL", "BACKEND_ACCESS_KEY")

	o := d.Overview(context.Background())

	assert.Equal(t, SourceDemo, o.Source.Source)
	require.NotNil(t, o.Source.Error)
	assert.Len(t, o.Customers, 4)
	assert.Len(t, o.Receivables, 5)
	assert.Empty(t, o.Warnings)
	assert.Equal(t, "2024-07-20", o.Date.String())

	st := o.Stats
	assert.True(t, decimal.NewFromInt(93000).Equal(st.TotalOutstanding), st.TotalOutstanding.String())
	assert.Equal(t, 4, st.OverdueCount)
	assert.True(t, decimal.NewFromInt(80500).Equal(st.OverdueAmount))
	assert.True(t, decimal.NewFromInt(58000).Equal(st.AgingBuckets.Days0To30))
	assert.True(t, decimal.NewFromInt(35000).Equal(st.AgingBuckets.Days31To60))
	assert.True(t, st.AgingBuckets.Days61To90.IsZero())
	assert.True(t, st.AgingBuckets.Over90.IsZero())
	assert.True(t, st.AgingBuckets.Sum().Equal(st.TotalOutstanding))
	assert.Equal(t, 21, st.AverageAgingDays)
	assert.True(t, st.CollectionRate.IsZero())
	assert.Equal(t, 5, st.ReceivableCount)
	assert.Equal(t, 1, st.FollowUpsDue)

	require.Len(t, o.FollowUpsDue, 1)
	assert.Equal(t, "3", o.FollowUpsDue[0].ID)
}

func TestReceivables_AgingIsDerived(t *testing.T) {
	d := newDashboard(nil, "BACKEND_URL")

	res := d.Receivables(context.Background())
	require.Len(t, res.Items, 5)

	byReceipt := map[string]domain.Receivable{}
	for _, r := range res.Items {
		byReceipt[r.ReceiptNumber] = r
	}

	r1 := byReceipt["RCP-2024-001"]
	assert.Equal(t, 19, r1.AgingDays)
	assert.Equal(t, domain.StatusOverdue, r1.Status)
	assert.Equal(t, domain.Bucket0To30, domain.BucketFor(r1.AgingDays))

	r3 := byReceipt["RCP-2024-003"]
	assert.Equal(t, 30, r3.AgingDays)
	assert.Equal(t, domain.Bucket0To30, domain.BucketFor(r3.AgingDays))

	// stored pending, five days past due
	r2 := byReceipt["RCP-2024-002"]
	assert.Equal(t, 5, r2.AgingDays)
	assert.Equal(t, domain.StatusOverdue, r2.Status)

	r4 := byReceipt["RCP-2024-004"]
	assert.Equal(t, 0, r4.AgingDays)
	assert.Equal(t, domain.StatusPending, r4.Status)
}

func TestReceivablesByStatus(t *testing.T) {
	d := newDashboard(nil, "BACKEND_URL")

	overdue := d.ReceivablesByStatus(context.Background(), domain.StatusOverdue)
	assert.Equal(t, []string{"RCP-2024-005", "RCP-2024-003", "RCP-2024-001", "RCP-2024-002"}, receipts(overdue.Items))

	pending := d.ReceivablesByStatus(context.Background(), domain.StatusPending)
	assert.Equal(t, []string{"RCP-2024-004"}, receipts(pending.Items))

	paid := d.ReceivablesByStatus(context.Background(), domain.StatusPaid)
	assert.NotNil(t, paid.Items)
	assert.Empty(t, paid.Items)
}

func TestPaidSurvivesDerivation(t *testing.T) {
	live := newFakeLive()
	due := domain.MustParseDate("2024-03-01")
	live.extra = []domain.Receivable{{
		ID:             "p1",
		ReceiptNumber:  "RCP-PAID",
		DueDate:        &due,
		OriginalAmount: decimal.NewFromInt(100),
		BalanceDue:     decimal.Zero,
		Status:         domain.StatusPaid,
		CreatedAt:      fixedNow.Add(-time.Hour),
	}}
	d := newDashboard(live)

	paid := d.ReceivablesByStatus(context.Background(), domain.StatusPaid)
	assert.Equal(t, SourceLive, paid.Source.Source)
	require.Len(t, paid.Items, 1)
	assert.Equal(t, domain.StatusPaid, paid.Items[0].Status)
	assert.Equal(t, 141, paid.Items[0].AgingDays)

	require.NotNil(t, live.lastReceivables.Status)
	assert.Equal(t, domain.StatusPaid, *live.lastReceivables.Status)

	overdue := d.ReceivablesByStatus(context.Background(), domain.StatusOverdue)
	assert.NotContains(t, receipts(overdue.Items), "RCP-PAID")
	assert.Nil(t, live.lastReceivables.Status)
}

func TestCustomerReceivables(t *testing.T) {
	d := newDashboard(nil, "BACKEND_URL")

	res := d.CustomerReceivables(context.Background(), "1")
	assert.Equal(t, []string{"RCP-2024-001", "RCP-2024-005"}, receipts(res.Items))
}

func TestCustomerAndReceivableLookup(t *testing.T) {
	d := newDashboard(nil, "BACKEND_URL")

	c, err := d.Customer(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "TechCorp Solutions", c.Item.Name)

	_, err = d.Customer(context.Background(), "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	r, err := d.Receivable(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, 49, r.Item.AgingDays)

	_, err = d.Receivable(context.Background(), "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTodaysFollowUps(t *testing.T) {
	d := newDashboard(nil, "BACKEND_URL")
	d.now = func() time.Time { return time.Date(2024, 7, 19, 23, 0, 0, 0, time.UTC) }

	res := d.TodaysFollowUps(context.Background())
	require.Len(t, res.Items, 2)
	assert.Equal(t, "2", res.Items[0].ID)
	assert.Equal(t, "1", res.Items[1].ID)
}

func TestFollowUps(t *testing.T) {
	d := newDashboard(nil, "BACKEND_URL")

	all := d.FollowUps(context.Background(), nil)
	assert.Len(t, all.Items, 3)

	id := "3"
	one := d.FollowUps(context.Background(), &id)
	require.Len(t, one.Items, 1)
	assert.Equal(t, "2", one.Items[0].ID)
}

func TestToday_UsesConfiguredTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)

	d := NewDashboardService(nil, loc, nil)
	d.now = func() time.Time { return time.Date(2024, 7, 20, 20, 0, 0, 0, time.UTC) }
	assert.Equal(t, "2024-07-21", d.Today().String())
}

func TestOverview_ReadFailureDegrades(t *testing.T) {
	live := newFakeLive()
	live.receivablesErr = errors.New("list receivables: statement timeout")
	d := newDashboard(live)

	o := d.Overview(context.Background())
	assert.Equal(t, SourceLive, o.Source.Source)
	assert.Empty(t, o.Receivables)
	assert.NotNil(t, o.Receivables)
	assert.Len(t, o.Customers, 4)
	require.Len(t, o.Warnings, 1)
	assert.Contains(t, o.Warnings[0], "statement timeout")
	assert.True(t, o.Stats.TotalOutstanding.IsZero())
	assert.Equal(t, 1, o.Stats.FollowUpsDue)

	list := d.Receivables(context.Background())
	assert.Empty(t, list.Items)
	assert.Len(t, list.Warnings, 1)
}
