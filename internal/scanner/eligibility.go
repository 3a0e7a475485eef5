package scanner

import (
	"context"

	"whalewatch/internal/logger"
	"whalewatch/internal/models"
)

// MarketData is the venue query surface the scanner consumes. Each call
// carries its own timeout; failures yield an error, never a panic.
type MarketData interface {
	AccountValue(ctx context.Context, account models.Account) (float64, error)
	LatestUSDCDeposit(ctx context.Context, account models.Account) (float64, error)
	OpenLimitOrders(ctx context.Context, account models.Account) ([]models.Order, error)
}

// Eligibility decides whether an account currently qualifies as a whale
// worth scanning. Query failures fail closed: the account is skipped this
// cycle and retried naturally on the next one.
type Eligibility struct {
	data          MarketData
	minBalanceUSD float64
	minDepositUSD float64
}

func NewEligibility(data MarketData, minBalanceUSD, minDepositUSD float64) *Eligibility {
	return &Eligibility{
		data:          data,
		minBalanceUSD: minBalanceUSD,
		minDepositUSD: minDepositUSD,
	}
}

// IsEligible checks the balance floor first and only then the most recent
// USDC deposit; the second query is never issued for small accounts. The
// balance check is non-strict (< rejects) while the deposit check is strict
// (> accepts): the thresholds are asymmetric on purpose.
func (e *Eligibility) IsEligible(ctx context.Context, account models.Account) bool {
	balance, err := e.data.AccountValue(ctx, account)
	if err != nil {
		logger.Warn("Account value query failed for %s: %v", account, err)
		return false
	}
	if balance < e.minBalanceUSD {
		return false
	}

	latestDeposit, err := e.data.LatestUSDCDeposit(ctx, account)
	if err != nil {
		logger.Warn("Ledger query failed for %s: %v", account, err)
		return false
	}
	if latestDeposit <= e.minDepositUSD {
		return false
	}

	logger.Info("Whale eligible: %s | balance $%.0f | latest deposit $%.0f", account, balance, latestDeposit)
	return true
}
