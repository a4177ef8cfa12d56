package demo

import (
	"context"
	"testing"

	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetShape(t *testing.T) {
	assert.Len(t, Customers(), 4)
	assert.Len(t, Receivables(), 5)
	assert.Len(t, FollowUps(), 3)
}

func TestReceivablesCarryCustomer(t *testing.T) {
	for _, r := range Receivables() {
		require.NotNil(t, r.Customer, r.ReceiptNumber)
		require.NotNil(t, r.CustomerID)
		assert.Equal(t, *r.CustomerID, r.Customer.ID)
		assert.True(t, r.OriginalAmount.Equal(r.BalanceDue))
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	rs := Receivables()
	rs[0].ReceiptNumber = "changed"
	*rs[0].PONumber = "changed"
	rs[0].Customer.Name = "changed"
	*rs[0].DueDate = domain.MustParseDate("1999-01-01")

	fresh := Receivables()
	assert.Equal(t, "RCP-2024-001", fresh[0].ReceiptNumber)
	assert.Equal(t, "PO-ABC-2024-100", *fresh[0].PONumber)
	assert.Equal(t, "ABC Manufacturing Ltd.", fresh[0].Customer.Name)
	assert.Equal(t, "2024-07-01", fresh[0].DueDate.String())

	cs := Customers()
	*cs[0].Email = "x@y.z"
	assert.Equal(t, "finance@abcmfg.com", *Customers()[0].Email)
}

func TestStore_ListCustomersByName(t *testing.T) {
	out, err := NewStore().ListCustomers(context.Background())
	require.NoError(t, err)

	names := make([]string, len(out))
	for i, c := range out {
		names[i] = c.Name
	}
	assert.Equal(t, []string{
		"ABC Manufacturing Ltd.",
		"Global Trading Co.",
		"Smart Electronics",
		"TechCorp Solutions",
	}, names)
}

func TestStore_ListReceivablesNewestFirst(t *testing.T) {
	out, err := NewStore().ListReceivables(context.Background(), repository.ReceivablesFilter{})
	require.NoError(t, err)
	require.Len(t, out, 5)

	var receipts []string
	for _, r := range out {
		receipts = append(receipts, r.ReceiptNumber)
	}
	assert.Equal(t, []string{"RCP-2024-004", "RCP-2024-002", "RCP-2024-001", "RCP-2024-003", "RCP-2024-005"}, receipts)
}

func TestStore_ListReceivablesFiltered(t *testing.T) {
	customerID := "1"
	out, err := NewStore().ListReceivables(context.Background(), repository.ReceivablesFilter{
		CustomerID: &customerID,
		Order:      repository.ReceivablesByDueDate,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "RCP-2024-005", out[0].ReceiptNumber)
	assert.Equal(t, "RCP-2024-001", out[1].ReceiptNumber)

	status := domain.StatusPending
	out, err = NewStore().ListReceivables(context.Background(), repository.ReceivablesFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestStore_GetNotFound(t *testing.T) {
	s := NewStore()

	_, err := s.GetCustomer(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetReceivable(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	r, err := s.GetReceivable(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Global Trading Co.", r.Customer.Name)
}

func TestStore_FollowUps(t *testing.T) {
	s := NewStore()

	all, err := s.ListFollowUps(context.Background(), repository.FollowUpsFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// same scheduled day falls back to creation order
	assert.Equal(t, []string{"2", "1", "3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	due, err := s.ListFollowUps(context.Background(), repository.DueOn(domain.MustParseDate("2024-07-19")))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "2", due[0].ID)

	receivableID := "2"
	byReceivable, err := s.ListFollowUps(context.Background(), repository.FollowUpsFilter{ReceivableID: &receivableID})
	require.NoError(t, err)
	require.Len(t, byReceivable, 1)
	assert.Equal(t, "3", byReceivable[0].ID)
}

func TestStore_WritesAreRefused(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.CreateCustomer(ctx, domain.NewCustomer{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrReadOnly)

	_, err = s.CreateReceivable(ctx, domain.NewReceivable{ReceiptNumber: "x", Status: domain.StatusPending})
	assert.ErrorIs(t, err, domain.ErrReadOnly)

	_, err = s.CreateFollowUp(ctx, domain.NewFollowUp{ReceivableID: "1"})
	assert.ErrorIs(t, err, domain.ErrReadOnly)

	assert.Len(t, Customers(), 4)
}
