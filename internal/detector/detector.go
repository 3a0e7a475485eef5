// Package detector implements layering detection over an account's open
// limit orders: many orders clustered at a single price inside a short
// window, with more than one distinct size, are the layering signature that
// separates spoof-like placement from a single large resting order.
package detector

import (
	"math"
	"time"

	"whalewatch/internal/models"
)

type Config struct {
	// MinCount is both the cheap pre-filter on the whole snapshot and the
	// per-cluster membership threshold.
	MinCount int
	// Window is the lookback applied to order placement timestamps.
	Window time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinCount: 71,
		Window:   5 * time.Minute,
	}
}

type Detector struct {
	config Config
}

func New(config Config) *Detector {
	return &Detector{config: config}
}

// priceKey maps an order price to its cluster key. Exact float equality is
// deliberate: the venue quotes discrete ticks, and layering places orders at
// the identical level. A tolerance-based strategy would replace only this
// function.
func priceKey(price float64) float64 {
	return price
}

// sizeKey rounds a size to 4 decimal places for the size-diversity check.
func sizeKey(size float64) float64 {
	return math.Round(size*1e4) / 1e4
}

// Detect returns one anomaly per qualifying price cluster in orders, judged
// at nowMs (ms since epoch). The result carries price, member count, and the
// coin/side of the cluster's first order; Account, ID, and DetectedAt are
// stamped by the caller.
func (d *Detector) Detect(orders []models.Order, nowMs int64) []models.Anomaly {
	if len(orders) < d.config.MinCount {
		return nil
	}

	recentStart := nowMs - d.config.Window.Milliseconds()
	recent := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Timestamp >= recentStart {
			recent = append(recent, o)
		}
	}
	if len(recent) < d.config.MinCount {
		return nil
	}

	clusters := make(map[float64][]models.Order)
	for _, o := range recent {
		k := priceKey(o.Price)
		clusters[k] = append(clusters[k], o)
	}

	var anomalies []models.Anomaly
	for price, members := range clusters {
		if len(members) < d.config.MinCount {
			continue
		}
		sizes := make(map[float64]struct{}, len(members))
		for _, o := range members {
			sizes[sizeKey(o.Size)] = struct{}{}
		}
		if len(sizes) <= 1 {
			continue
		}
		// Coin/side are read off the first member; a cluster is assumed
		// homogeneous at one price for one account, which is not verified.
		anomalies = append(anomalies, models.Anomaly{
			Price: price,
			Count: len(members),
			Coin:  members[0].Coin,
			Side:  members[0].Side,
		})
	}

	return anomalies
}
