package models

import "time"

// BillingItem is an immutable ledger entry. Items are only ever appended by
// the billing engine; they are never mutated or deleted.
type BillingItem struct {
	ID          string    `json:"id"`
	Service     string    `json:"service"`
	AmountCents int64     `json:"amountCents"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}
