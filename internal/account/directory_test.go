package account

import (
	"fmt"
	"sync"
	"testing"

	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	return NewDirectory(decimal.NewFromInt(100_000), logger.Nop{})
}

func TestDemoAccountSeeded(t *testing.T) {
	d := newTestDirectory(t)

	acc, err := d.Get("demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "demo", acc.ID)
	assert.Equal(t, "Demo", acc.Info().FirstName)

	snap := acc.Ledger().Export()
	assert.True(t, snap.Cash.Equal(decimal.NewFromInt(75_000)))
	assert.Len(t, snap.Positions, 3)
	assert.Len(t, snap.Trades, 2)

	_, err = d.Authenticate("demo@example.com", "password")
	require.NoError(t, err)
}

func TestSignupAndAuthenticate(t *testing.T) {
	d := newTestDirectory(t)

	acc, err := d.Signup("Trader@Example.com", "hunter22", "Jane", "Doe")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "trader@example.com", acc.Email)
	assert.True(t, acc.Ledger().Export().Cash.Equal(decimal.NewFromInt(100_000)))

	got, err := d.Authenticate("trader@example.com", "hunter22")
	require.NoError(t, err)
	assert.Same(t, acc, got)

	_, err = d.Authenticate("trader@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = d.Authenticate("nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	d := newTestDirectory(t)

	_, err := d.Signup("", "hunter22", "Jane", "Doe")
	assert.ErrorIs(t, err, ErrInvalidSignup)
	_, err = d.Signup("a@b.com", "short", "Jane", "Doe")
	assert.ErrorIs(t, err, ErrInvalidSignup)
	_, err = d.Signup("a@b.com", "hunter22", "", "Doe")
	assert.ErrorIs(t, err, ErrInvalidSignup)

	_, err = d.Signup("demo@example.com", "hunter22", "Jane", "Doe")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	d := newTestDirectory(t)
	_, err := d.Signup("a@b.com", "hunter22", "Jane", "Doe")
	require.NoError(t, err)

	acc, err := d.UpdateProfile("a@b.com", model.ProfileUpdate{
		FirstName: "Janet",
		Profile: &model.Profile{
			Bio:           "day trader",
			RiskTolerance: "High",
		},
	})
	require.NoError(t, err)
	info := acc.Info()
	assert.Equal(t, "Janet", info.FirstName)
	assert.Equal(t, "Doe", info.LastName)
	assert.Equal(t, "day trader", info.Profile.Bio)
	assert.Equal(t, "High", info.Profile.RiskTolerance)
	// Untouched fields keep their signup defaults.
	assert.Equal(t, "Swing Trading", info.Profile.TradingStyle)

	_, err = d.UpdateProfile("missing@b.com", model.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountsListsEveryLedgerOwner(t *testing.T) {
	d := newTestDirectory(t)
	_, err := d.Signup("a@b.com", "hunter22", "Jane", "Doe")
	require.NoError(t, err)

	accounts := d.Accounts()
	assert.Len(t, accounts, 2)
	for _, acc := range accounts {
		assert.NotNil(t, acc.Ledger())
	}
}

func TestConcurrentProfileReadsAndUpdates(t *testing.T) {
	d := newTestDirectory(t)
	acc, err := d.Signup("a@b.com", "hunter22", "Jane", "Doe")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := d.UpdateProfile("a@b.com", model.ProfileUpdate{
					FirstName: fmt.Sprintf("Jane-%d-%d", i, j),
					Profile:   &model.Profile{Bio: "day trader"},
				})
				assert.NoError(t, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				info := acc.Info()
				assert.NotEmpty(t, info.FirstName)
				assert.Equal(t, "Doe", info.LastName)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "day trader", acc.Info().Profile.Bio)
}
