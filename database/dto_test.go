package database

import (
	"context"
	"testing"
	"time"

	"budget/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDtoMapper_CreateAndReadAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Sync.Accounts.Create(ctx, models.AccountDto{Description: "Wallet", OnBudget: true})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.Hidden)

	list, err := store.Sync.Accounts.ReadAll(ctx, Filter(created.ID))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])

	none, err := store.Sync.Accounts.ReadAll(ctx, Filter())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDtoMapper_FlagsMapToTimestamps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dto, err := store.Sync.Payees.Create(ctx, models.PayeeDto{Description: "Gym"})
	require.NoError(t, err)

	// 只标记删除也会同时隐藏
	dto.Deleted = true
	require.NoError(t, store.Sync.Payees.Update(ctx, dto))

	payee, err := store.Payees.Read(ctx, dto.ID)
	require.NoError(t, err)
	require.NotNil(t, payee.DeletedDateTime)
	require.NotNil(t, payee.HiddenDateTime)
	assert.Equal(t, models.StateDeleted, payee.State())

	list, err := store.Sync.Payees.ReadAll(ctx, Filter(dto.ID))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Deleted)
	assert.True(t, list[0].Hidden)

	// false 清空时间戳
	dto.Deleted, dto.Hidden = false, false
	require.NoError(t, store.Sync.Payees.Update(ctx, dto))
	payee, err = store.Payees.Read(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, payee.State())

	assert.ErrorIs(t, store.Sync.Payees.Update(ctx, models.PayeeDto{ID: models.NewGUID()}), ErrNotFound)
}

func TestDtoMapper_TransactionKeepsForeignKeysOnly(t *testing.T) {
	store := newTestStore(t)
	f := newFixture(t, store)
	ctx := context.Background()

	dto := models.TransactionDto{
		Amount:      decimal.RequireFromString("-75.25"),
		AccountID:   f.account.ID,
		PayeeID:     f.payee.ID,
		EnvelopeID:  f.envelope.ID,
		SplitID:     models.NullGUID{GUID: models.NewGUID(), Valid: true},
		ServiceDate: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		Notes:       "utilities",
	}
	created, err := store.Sync.Transactions.Create(ctx, dto)
	require.NoError(t, err)

	list, err := store.Sync.Transactions.ReadAll(ctx, Filter(created.ID))
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, f.account.ID, got.AccountID)
	assert.Equal(t, f.envelope.ID, got.EnvelopeID)
	assert.Equal(t, dto.SplitID, got.SplitID)
	assert.True(t, dto.Amount.Equal(got.Amount))
	assert.True(t, dto.ServiceDate.Equal(got.ServiceDate))
	assert.False(t, got.Deleted)

	got.Deleted = true
	require.NoError(t, store.Sync.Transactions.Update(ctx, got))
	txn, err := store.Transactions.Read(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, txn.IsDeleted())
}

func TestDtoMapper_ImportUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	existing, err := store.Sync.EnvelopeGroups.Create(ctx, models.EnvelopeGroupDto{Description: "Old name"})
	require.NoError(t, err)

	fresh := models.EnvelopeGroupDto{ID: models.NewGUID(), Description: "Savings", Hidden: true}
	existing.Description = "New name"
	require.NoError(t, store.Sync.EnvelopeGroups.Import(ctx, []models.EnvelopeGroupDto{existing, fresh}))

	list, err := store.Sync.EnvelopeGroups.ReadAll(ctx, Filter(existing.ID, fresh.ID))
	require.NoError(t, err)
	require.Len(t, list, 2)
	byID := map[models.GUID]models.EnvelopeGroupDto{}
	for _, d := range list {
		byID[d.ID] = d
	}
	assert.Equal(t, "New name", byID[existing.ID].Description)
	assert.True(t, byID[fresh.ID].Hidden)
	assert.False(t, byID[fresh.ID].Deleted)

	require.NoError(t, store.Sync.EnvelopeGroups.Import(ctx, nil))
}

func TestDtoMapper_ImportRollsBackOnFailure(t *testing.T) {
	store := newTestStore(t)
	f := newFixture(t, store)
	ctx := context.Background()

	good := models.BudgetDto{ID: models.NewGUID(), Amount: decimal.NewFromInt(10), EnvelopeID: f.envelope.ID, BudgetScheduleID: f.schedule.ID}
	bad := models.BudgetDto{ID: models.NewGUID(), Amount: decimal.NewFromInt(20), EnvelopeID: models.NewGUID(), BudgetScheduleID: f.schedule.ID}

	err := store.Sync.Budgets.Import(ctx, []models.BudgetDto{good, bad})
	assert.True(t, IsForeignKeyViolation(err), "got %v", err)

	list, err := store.Sync.Budgets.ReadAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
