package models

import "time"

// Anomaly is one layering finding: a cluster of same-price limit orders with
// varying sizes inside the detection window. Coin and Side come from the
// cluster's first order; clusters are assumed side/coin-homogeneous at a
// given price for a single account, which is not independently verified.
type Anomaly struct {
	ID      string
	Account Account

	Price float64
	Count int
	Coin  string
	Side  Side

	DetectedAt time.Time
	Notified   bool
}
