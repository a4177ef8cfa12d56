package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgingDays(t *testing.T) {
	today := MustParseDate("2024-07-20")

	tests := []struct {
		name string
		due  string
		want int
	}{
		{name: "future due date", due: "2024-08-01", want: 0},
		{name: "due today", due: "2024-07-20", want: 0},
		{name: "one day past", due: "2024-07-19", want: 1},
		{name: "nineteen days past", due: "2024-07-01", want: 19},
		{name: "thirty days past", due: "2024-06-20", want: 30},
		{name: "across a year boundary", due: "2023-12-31", want: 202},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgingDays(MustParseDate(tt.due), today))
		})
	}
}

func TestAgingDays_ZeroDueDate(t *testing.T) {
	assert.Equal(t, 0, AgingDays(Date{}, MustParseDate("2024-07-20")))
}

func TestAgingDays_PastIsExactlyN(t *testing.T) {
	today := MustParseDate("2024-03-15")
	for n := 1; n <= 400; n++ {
		due := today.AddDays(-n)
		require.Equal(t, n, AgingDays(due, today), "n=%d", n)
		require.Equal(t, StatusOverdue, DeriveStatus(StatusPending, AgingDays(due, today)))
	}
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusPending, DeriveStatus(StatusPending, 0))
	assert.Equal(t, StatusPending, DeriveStatus(StatusOverdue, 0))
	assert.Equal(t, StatusOverdue, DeriveStatus(StatusPending, 1))
	assert.Equal(t, StatusOverdue, DeriveStatus("", 45))
	assert.Equal(t, StatusPaid, DeriveStatus(StatusPaid, 0))
	assert.Equal(t, StatusPaid, DeriveStatus(StatusPaid, 120))
}

func TestBucketFor_Boundaries(t *testing.T) {
	cases := map[int]AgingBucket{
		0:    Bucket0To30,
		30:   Bucket0To30,
		31:   Bucket31To60,
		60:   Bucket31To60,
		61:   Bucket61To90,
		90:   Bucket61To90,
		91:   Bucket90Plus,
		1000: Bucket90Plus,
	}
	for days, want := range cases {
		assert.Equal(t, want, BucketFor(days), "aging %d", days)
	}
}

func TestBucketFor_PartitionIsExhaustive(t *testing.T) {
	for days := 0; days <= 500; days++ {
		b := BucketFor(days)
		hits := 0
		for _, candidate := range AgingBuckets {
			if candidate == b {
				hits++
			}
		}
		require.Equal(t, 1, hits, "aging %d", days)
	}
}

func TestReceivableWithAging(t *testing.T) {
	due := MustParseDate("2024-07-01")
	r := Receivable{Status: StatusPending, DueDate: &due}

	got := r.WithAging(MustParseDate("2024-07-20"))
	assert.Equal(t, 19, got.AgingDays)
	assert.Equal(t, StatusOverdue, got.Status)
	assert.Equal(t, Bucket0To30, BucketFor(got.AgingDays))

	// the receiver is left untouched
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, 0, r.AgingDays)
}

func TestReceivableWithAging_PaidIsSticky(t *testing.T) {
	due := MustParseDate("2024-01-01")
	r := Receivable{Status: StatusPaid, DueDate: &due}

	got := r.WithAging(MustParseDate("2024-07-20"))
	assert.Equal(t, StatusPaid, got.Status)
	assert.Equal(t, 201, got.AgingDays)
}

func TestReceivableWithAging_NoDueDate(t *testing.T) {
	r := Receivable{Status: StatusOverdue}
	got := r.WithAging(MustParseDate("2024-07-20"))
	assert.Equal(t, 0, got.AgingDays)
	assert.Equal(t, StatusPending, got.Status)
}
