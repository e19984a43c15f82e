package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/common/logger"
	"paygo-hire/internal/store"
)

func newTestEngine(t *testing.T, now func() time.Time) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	eng := NewEngine(DefaultCatalog(), mem.Ledger(), mem.Discount(), logger.NewNoOpLogger()).WithClock(now)
	return eng, mem
}

func TestChargeServiceAppliesDiscountInsideWindow(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, func() time.Time { return t0 })

	item, err := eng.ChargeService(context.Background(), ServiceBackgroundCheck, "Background check for Jane Doe")
	require.NoError(t, err)

	assert.Equal(t, int64(250), item.AmountCents)
	assert.Equal(t, string(ServiceBackgroundCheck), item.Service)
	assert.Contains(t, item.Description, "90% new member discount")
	assert.NotEmpty(t, item.ID)
}

func TestChargeServiceFullPriceAfterWindow(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	eng, _ := newTestEngine(t, func() time.Time { return now })

	// First charge starts the window.
	first, err := eng.ChargeService(context.Background(), ServiceBackgroundCheck, "Background check")
	require.NoError(t, err)
	assert.Equal(t, int64(250), first.AmountCents)

	// 29 days later the discount still applies.
	now = t0.Add(29 * 24 * time.Hour)
	second, err := eng.ChargeService(context.Background(), ServiceBackgroundCheck, "Background check")
	require.NoError(t, err)
	assert.Equal(t, int64(250), second.AmountCents)

	// 31 days later the window is closed and the base price applies.
	now = t0.Add(31 * 24 * time.Hour)
	third, err := eng.ChargeService(context.Background(), ServiceBackgroundCheck, "Background check")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), third.AmountCents)
	assert.NotContains(t, third.Description, "discount")
}

func TestDiscountWindowStartsOnFirstChargeOnly(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := t0
	eng, _ := newTestEngine(t, func() time.Time { return now })

	// Nothing purchased yet: the window has not started.
	active, err := eng.IsDiscountActive(context.Background())
	require.NoError(t, err)
	assert.False(t, active)

	end, err := eng.DiscountEndDate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, end)

	// Even far in the future, the first charge is still discounted.
	now = t0.Add(90 * 24 * time.Hour)
	item, err := eng.ChargeService(context.Background(), ServiceJobPost, "Job posting: Staff Engineer")
	require.NoError(t, err)
	assert.Equal(t, int64(500), item.AmountCents)

	active, err = eng.IsDiscountActive(context.Background())
	require.NoError(t, err)
	assert.True(t, active)

	end, err = eng.DiscountEndDate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.Equal(t, now.Add(DiscountWindow), *end)
}

func TestChargeServiceUnknownKind(t *testing.T) {
	eng, mem := newTestEngine(t, time.Now)

	_, err := eng.ChargeService(context.Background(), ServiceKind("Resume Polishing"), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownService))

	// A rejected charge must not touch the ledger or the window.
	items, err := mem.Ledger().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	_, started, err := mem.Discount().Start(context.Background())
	require.NoError(t, err)
	assert.False(t, started)
}

func TestLedgerAccumulatesAcrossCharges(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := t0
	eng, mem := newTestEngine(t, func() time.Time { return now })

	_, err := eng.ChargeService(context.Background(), ServiceJobPost, "Job posting")
	require.NoError(t, err)
	now = now.Add(time.Hour)
	_, err = eng.ChargeService(context.Background(), ServiceAIScreening, "Screening")
	require.NoError(t, err)
	now = now.Add(time.Hour)
	_, err = eng.ChargeService(context.Background(), ServiceAIScreening, "Screening")
	require.NoError(t, err)

	items, err := mem.Ledger().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)

	total, err := eng.TotalSpend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Amount(500+50+50), total)

	byService, err := eng.SpendByService(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Amount(500), byService[ServiceJobPost])
	assert.Equal(t, Amount(100), byService[ServiceAIScreening])
}

func TestCostPerHire(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, func() time.Time { return t0 })

	// No hires yet: zero, not a division by zero.
	cost, err := eng.CostPerHire(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, Amount(0), cost)

	_, err = eng.ChargeService(context.Background(), ServiceSuccessfulHire, "Hire fee")
	require.NoError(t, err)
	_, err = eng.ChargeService(context.Background(), ServiceSuccessfulHire, "Hire fee")
	require.NoError(t, err)

	cost, err = eng.CostPerHire(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, Amount(5000), cost)
}

func TestAmountFormatting(t *testing.T) {
	assert.Equal(t, "500.00", Amount(50000).String())
	assert.Equal(t, "2.50", Amount(250).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "-12.34", Amount(-1234).String())
	assert.Equal(t, Amount(250), Amount(2500).MulBasisPoints(1000))
	assert.Equal(t, Amount(1), Amount(5).MulBasisPoints(1000))
	assert.Equal(t, Amount(250), AmountFromFloat(2.50))
}
