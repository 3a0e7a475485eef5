// Package models defines the core domain entities: accounts, orders, and anomalies.
package models

import (
	"errors"
	"strings"
)

// Account is a canonical venue account identifier: lowercase "0x" plus 40 hex chars.
type Account string

// Normalize lowercases an address so identical accounts compare equal.
func Normalize(addr string) Account {
	return Account(strings.ToLower(strings.TrimSpace(addr)))
}

// Validate checks the canonical address format.
func (a Account) Validate() error {
	if len(a) != 42 {
		return errors.New("account must be 42 characters")
	}
	if !strings.HasPrefix(string(a), "0x") {
		return errors.New("account must start with 0x")
	}
	for _, c := range a[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return errors.New("account must be lowercase hex")
		}
	}
	return nil
}

// Side is the venue's order side marker, passed through verbatim ("B" = bid, "A" = ask).
type Side string

// Order is one open limit order in an account's snapshot. Orders are fetched
// fresh every scan, never mutated, and discarded when the cycle ends.
type Order struct {
	Timestamp int64   `json:"timestamp"` // placement time, ms since epoch
	Price     float64 `json:"price"`
	Size      float64 `json:"size"`
	Side      Side    `json:"side"`
	Coin      string  `json:"coin"`
}

// Validate checks order field constraints.
func (o *Order) Validate() error {
	if o.Timestamp <= 0 {
		return errors.New("order timestamp must be positive")
	}
	if o.Price <= 0 {
		return errors.New("order price must be positive")
	}
	if o.Size <= 0 {
		return errors.New("order size must be positive")
	}
	if o.Coin == "" {
		return errors.New("order coin must not be empty")
	}
	return nil
}

// AccountSnapshot holds the per-scan account figures used by the
// eligibility filter. Not persisted between cycles.
type AccountSnapshot struct {
	AccountValue        float64
	LatestDepositAmount float64
}
