package core

import (
	"errors"
	"strconv"
	"strings"
)

type (
	// Item is one line of a purchase. Amount is derived from Quantity and
	// Rate and is recomputed by every mutation path; stored amounts are never
	// trusted against possibly stale quantity/rate.
	Item struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Rate     float64 `json:"rate"`
		Amount   float64 `json:"amount"`
	}

	// Purchase is one recorded transaction. ID is assigned at creation and
	// immutable; Total is derived from the items.
	Purchase struct {
		ID    string  `json:"id"`
		Date  string  `json:"date"`
		Items []Item  `json:"items"`
		Total float64 `json:"total"`
	}

	// RateQuote is one previous-rate suggestion for an item name.
	RateQuote struct {
		Date string  `json:"date"`
		Rate float64 `json:"rate"`
	}
)

var (
	ErrNoItems         = errors.New("purchase needs at least one item")
	ErrEmptyItemName   = errors.New("empty item name")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidRate     = errors.New("rate must be positive")
	ErrInvalidDate     = errors.New("unrecognized date format")
)

// NewItem builds an item with its amount computed from quantity and rate.
func NewItem(name string, quantity, rate float64) Item {
	return Item{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		Rate:     rate,
		Amount:   quantity * rate,
	}
}

// ItemAmount returns quantity times rate for an item.
func ItemAmount(i Item) float64 {
	return i.Quantity * i.Rate
}

// PurchaseTotal sums the stored item amounts. Callers are expected to have
// normalized the items first so that amount == quantity * rate holds.
func PurchaseTotal(items []Item) float64 {
	var total float64
	for _, i := range items {
		total += i.Amount
	}
	return total
}

// Recompute restores the derived fields: every item amount and the purchase
// total. Call after any edit to item quantities or rates.
func (p *Purchase) Recompute() {
	for i := range p.Items {
		p.Items[i].Amount = ItemAmount(p.Items[i])
	}
	p.Total = PurchaseTotal(p.Items)
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyItemName
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.Rate <= 0 {
		return ErrInvalidRate
	}
	return nil
}

// Validate checks a purchase before persistence: a parseable date and at
// least one fully filled item.
func (p Purchase) Validate() error {
	if !ParseDate(p.Date).Valid() {
		return ErrInvalidDate
	}
	if len(p.Items) == 0 {
		return ErrNoItems
	}
	for _, i := range p.Items {
		if err := i.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParseNumber parses numeric form input. Unparseable input counts as zero,
// matching how the entry form treats it.
func ParseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
