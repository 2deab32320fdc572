package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"budget/config"
	"budget/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Path:          filepath.Join(t.TempDir(), "budget.db"),
		LogLevel:      "silent",
		BusyTimeoutMS: 1000,
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// fixture 一组可被流水引用的基础数据
type fixture struct {
	account  models.Account
	payee    models.Payee
	group    models.EnvelopeGroup
	envelope models.Envelope
	schedule models.BudgetSchedule
}

func newFixture(t *testing.T, store *Store) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		account:  models.Account{Description: "Checking", OnBudget: true},
		payee:    models.Payee{Description: "Grocer"},
		group:    models.EnvelopeGroup{Description: "Bills"},
		schedule: models.MonthSchedule(2026, time.March),
	}
	require.NoError(t, store.Accounts.Create(ctx, &f.account))
	require.NoError(t, store.Payees.Create(ctx, &f.payee))
	require.NoError(t, store.EnvelopeGroups.Create(ctx, &f.group))
	f.envelope = models.Envelope{Description: "Rent", EnvelopeGroupID: f.group.ID}
	require.NoError(t, store.Envelopes.Create(ctx, &f.envelope))
	require.NoError(t, store.BudgetSchedules.Create(ctx, &f.schedule))
	return f
}

func (f fixture) transaction(amount string, notes string) models.Transaction {
	return models.Transaction{
		Amount:      decimal.RequireFromString(amount),
		AccountID:   f.account.ID,
		PayeeID:     f.payee.ID,
		EnvelopeID:  f.envelope.ID,
		ServiceDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Notes:       notes,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
