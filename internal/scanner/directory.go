package scanner

import (
	"context"

	"whalewatch/internal/logger"
	"whalewatch/internal/models"
)

// AccountDiscovery produces candidate accounts; a failed call is tolerated.
type AccountDiscovery interface {
	Discover(ctx context.Context, limit int) ([]models.Account, error)
}

// Directory owns the tracked-account set. It is refreshed only between
// cycles by the scheduler goroutine, so reads during fan-out need no
// locking; Accounts still hands out a copy so scans never alias the slice
// the next refresh will replace.
type Directory struct {
	discovery AccountDiscovery
	limit     int
	seeds     []models.Account
	accounts  []models.Account
}

// NewDirectory creates an empty directory. seeds are used only if the
// first-ever discovery attempt fails.
func NewDirectory(discovery AccountDiscovery, limit int, seeds []models.Account) *Directory {
	return &Directory{
		discovery: discovery,
		limit:     limit,
		seeds:     seeds,
	}
}

// Refresh replaces the tracked set with a fresh discovery result. On
// failure the previous set is retained (stale-but-available); if there is
// no previous set, the seed list takes its place.
func (d *Directory) Refresh(ctx context.Context) {
	accounts, err := d.discovery.Discover(ctx, d.limit)
	if err != nil {
		if len(d.accounts) == 0 {
			logger.Warn("Initial discovery failed, falling back to %d seed accounts: %v", len(d.seeds), err)
			d.accounts = append([]models.Account(nil), d.seeds...)
		} else {
			logger.Warn("Discovery failed, keeping stale set of %d accounts: %v", len(d.accounts), err)
		}
		return
	}
	logger.Info("Discovered %d tracked accounts", len(accounts))
	d.accounts = accounts
}

// Accounts returns a copy of the current tracked set.
func (d *Directory) Accounts() []models.Account {
	out := make([]models.Account, len(d.accounts))
	copy(out, d.accounts)
	return out
}
