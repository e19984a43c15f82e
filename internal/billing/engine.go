// Package billing implements the pay-as-you-go billing engine: a static
// price table, the 30-day new-account discount window, and an append-only
// ledger of charges.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/common/logger"
	"paygo-hire/internal/common/metrics"
	"paygo-hire/internal/models"
	"paygo-hire/internal/store"
)

const (
	// DiscountWindow is how long the new-account discount lasts, counted
	// from the first chargeable action.
	DiscountWindow = 30 * 24 * time.Hour

	// discountBasisPoints is the fraction of the base price kept while the
	// discount is active: 10% of base, i.e. 90% off.
	discountBasisPoints = 1000

	discountMarker = " (90% new member discount)"
)

// Engine computes charges and appends them to the ledger.
type Engine struct {
	catalog  Catalog
	ledger   store.LedgerRepo
	discount store.DiscountRepo
	logger   logger.Logger
	now      func() time.Time
	window   time.Duration
}

func NewEngine(catalog Catalog, ledger store.LedgerRepo, discount store.DiscountRepo, log logger.Logger) *Engine {
	return &Engine{
		catalog:  catalog,
		ledger:   ledger,
		discount: discount,
		logger:   log.WithFields(map[string]interface{}{"component": "billing"}),
		now:      time.Now,
		window:   DiscountWindow,
	}
}

// WithClock overrides the engine's time source. Tests use it to pin the
// discount window.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WithWindow overrides the discount window length, wired from the
// billing.discount_days config key.
func (e *Engine) WithWindow(window time.Duration) *Engine {
	if window > 0 {
		e.window = window
	}
	return e
}

// ChargeService prices the service, applies the discount when the window is
// active, and appends an immutable ledger entry. The first charge ever made
// lazily records the discount window start.
func (e *Engine) ChargeService(ctx context.Context, kind ServiceKind, description string) (*models.BillingItem, error) {
	base, ok := e.catalog.Price(kind)
	if !ok {
		return nil, apperrors.NewUnknownServiceError(string(kind))
	}

	now := e.now().UTC()
	start, err := e.discount.RecordStart(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("record discount start: %w", err)
	}

	amount := base
	discounted := now.Before(start.Add(e.window))
	if discounted {
		amount = base.MulBasisPoints(discountBasisPoints)
		description += discountMarker
	}

	item := &models.BillingItem{
		ID:          uuid.New().String(),
		Service:     string(kind),
		AmountCents: int64(amount),
		Date:        now,
		Description: description,
	}
	if err := e.ledger.Append(ctx, item); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	metrics.ChargesTotal.WithLabelValues(string(kind)).Inc()
	metrics.ChargedAmountCents.WithLabelValues(string(kind)).Add(float64(amount))

	e.logger.Info("service charged", map[string]interface{}{
		"billingItemId": item.ID,
		"service":       string(kind),
		"amount":        amount.String(),
		"discounted":    discounted,
	})
	return item, nil
}

// IsDiscountActive reports whether the discount window is currently open.
// It is false when no chargeable action has happened yet: the window only
// starts ticking on the first purchase.
func (e *Engine) IsDiscountActive(ctx context.Context) (bool, error) {
	start, ok, err := e.discount.Start(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return e.now().UTC().Before(start.Add(e.window)), nil
}

// DiscountEndDate returns when the discount window closes, or nil when no
// charge has been made yet.
func (e *Engine) DiscountEndDate(ctx context.Context) (*time.Time, error) {
	start, ok, err := e.discount.Start(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	end := start.Add(e.window)
	return &end, nil
}

// TotalSpend is the sum of every ledger amount.
func (e *Engine) TotalSpend(ctx context.Context) (Amount, error) {
	items, err := e.ledger.List(ctx)
	if err != nil {
		return 0, err
	}
	var total Amount
	for _, item := range items {
		total += Amount(item.AmountCents)
	}
	return total, nil
}

// SpendByService groups ledger amounts by service kind.
func (e *Engine) SpendByService(ctx context.Context) (map[ServiceKind]Amount, error) {
	items, err := e.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[ServiceKind]Amount)
	for _, item := range items {
		out[ServiceKind(item.Service)] += Amount(item.AmountCents)
	}
	return out, nil
}

// CostPerHire divides total spend by the hire count, returning 0 when there
// are no hires.
func (e *Engine) CostPerHire(ctx context.Context, hires int) (Amount, error) {
	if hires <= 0 {
		return 0, nil
	}
	total, err := e.TotalSpend(ctx)
	if err != nil {
		return 0, err
	}
	return total / Amount(hires), nil
}
