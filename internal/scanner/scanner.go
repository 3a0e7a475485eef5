// Package scanner orchestrates the scan cycle: it keeps the tracked-account
// directory fresh, fans one concurrent scan out per account with a bounded
// launch rate, and dispatches an alert for every layering anomaly found.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"whalewatch/internal/detector"
	"whalewatch/internal/logger"
	"whalewatch/internal/models"
)

// AlertNotifier delivers alerts best-effort; failures are logged and never
// abort a scan.
type AlertNotifier interface {
	Notify(subject, body string) error
}

// AlertJournal records emitted anomalies for auditing. It is write-only
// from the scanner's point of view.
type AlertJournal interface {
	RecordAnomaly(anomaly *models.Anomaly) error
}

// Config holds the scheduling knobs. Detection thresholds live in
// detector.Config.
type Config struct {
	PollInterval    time.Duration
	RefreshInterval time.Duration
	LaunchStagger   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval:    30 * time.Second,
		RefreshInterval: time.Hour,
		LaunchStagger:   200 * time.Millisecond,
	}
}

// Scanner drives the infinite scan loop. No downstream failure is fatal:
// the loop exits only when its context is cancelled.
type Scanner struct {
	directory   *Directory
	eligibility *Eligibility
	data        MarketData
	detector    *detector.Detector
	notifier    AlertNotifier
	journal     AlertJournal
	config      Config

	lastRefresh time.Time
	nowMs       func() int64
}

func New(
	directory *Directory,
	eligibility *Eligibility,
	data MarketData,
	det *detector.Detector,
	notifier AlertNotifier,
	journal AlertJournal,
	config Config,
) *Scanner {
	return &Scanner{
		directory:   directory,
		eligibility: eligibility,
		data:        data,
		detector:    det,
		notifier:    notifier,
		journal:     journal,
		config:      config,
		nowMs:       func() int64 { return time.Now().UnixMilli() },
	}
}

// Run bootstraps the directory and alternates cycles with fixed sleeps
// until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) {
	s.directory.Refresh(ctx)
	s.lastRefresh = time.Now()

	for {
		if ctx.Err() != nil {
			logger.Info("Scanner stopped")
			return
		}

		if time.Since(s.lastRefresh) > s.config.RefreshInterval {
			s.directory.Refresh(ctx)
			s.lastRefresh = time.Now()
		}

		s.RunCycle(ctx)

		select {
		case <-ctx.Done():
			logger.Info("Scanner stopped")
			return
		case <-time.After(s.config.PollInterval):
		}
	}
}

// RunCycle scans every tracked account concurrently, staggering launches
// with a rate limiter, and returns once the slowest scan has finished. The
// directory is not touched again until the barrier join completes, so the
// fan-out reads a stable set.
func (s *Scanner) RunCycle(ctx context.Context) {
	accounts := s.directory.Accounts()
	if len(accounts) == 0 {
		logger.Warn("No tracked accounts, skipping cycle")
		return
	}

	start := time.Now()
	limiter := rate.NewLimiter(rate.Every(s.config.LaunchStagger), 1)

	var wg sync.WaitGroup
	for _, account := range accounts {
		if err := limiter.Wait(ctx); err != nil {
			break // shutdown mid-fan-out; join what was launched
		}
		wg.Add(1)
		go func(a models.Account) {
			defer wg.Done()
			s.scan(ctx, a)
		}(account)
	}
	wg.Wait()

	logger.Info("Cycle complete: %d accounts in %v", len(accounts), time.Since(start))
}

// scan runs the full per-account pipeline: eligibility, order snapshot,
// detection, alert dispatch. Every failure is absorbed here so sibling
// scans and the scheduler never see it.
func (s *Scanner) scan(ctx context.Context, account models.Account) {
	if !s.eligibility.IsEligible(ctx, account) {
		return
	}

	orders, err := s.data.OpenLimitOrders(ctx, account)
	if err != nil {
		logger.Warn("Open orders query failed for %s: %v", account, err)
		return
	}

	anomalies := s.detector.Detect(orders, s.nowMs())
	for i := range anomalies {
		anomaly := &anomalies[i]
		anomaly.ID = uuid.New().String()
		anomaly.Account = account
		anomaly.DetectedAt = time.Now()
		s.dispatch(anomaly)
	}
}

// dispatch sends one alert per anomaly and journals the outcome.
func (s *Scanner) dispatch(anomaly *models.Anomaly) {
	body := formatAlertBody(anomaly)
	logger.Info("Layering anomaly: account=%s coin=%s price=%.2f count=%d side=%s",
		anomaly.Account, anomaly.Coin, anomaly.Price, anomaly.Count, anomaly.Side)

	if s.notifier != nil {
		if err := s.notifier.Notify("Whale Layering Alert", body); err != nil {
			logger.Error("Failed to send alert for %s: %v", anomaly.Account, err)
		} else {
			anomaly.Notified = true
		}
	}

	if s.journal != nil {
		if err := s.journal.RecordAnomaly(anomaly); err != nil {
			logger.Warn("Failed to journal anomaly %s: %v", anomaly.ID, err)
		}
	}
}

func formatAlertBody(anomaly *models.Anomaly) string {
	return fmt.Sprintf(
		"Wallet: %s\nCoin: %s\nPrice: $%.2f\nCount: %d\nSide: %s\nTime: %s",
		anomaly.Account,
		anomaly.Coin,
		anomaly.Price,
		anomaly.Count,
		anomaly.Side,
		anomaly.DetectedAt.Format(time.RFC3339),
	)
}
