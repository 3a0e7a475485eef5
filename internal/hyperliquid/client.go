// Package hyperliquid provides access to the venue's info API.
package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
	"whalewatch/internal/models"
)

// Client queries the Hyperliquid info endpoint. Every call is single-shot
// with the configured timeout; failed calls are retried only by the next
// scan cycle.
type Client struct {
	infoURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new info-API client with a request-rate ceiling.
func NewClient(infoURL string, timeout time.Duration, requestsPerSec int) *Client {
	if requestsPerSec <= 0 {
		requestsPerSec = 10
	}
	return &Client{
		infoURL: infoURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), requestsPerSec),
	}
}

type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
}

// post issues one info request and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, reqType string, account models.Account, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(infoRequest{Type: reqType, User: string(account)})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.infoURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("info request %q failed: %w", reqType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("info request %q returned status %d", reqType, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %q response: %w", reqType, err)
	}
	return nil
}

// parseFloat converts the API's string-encoded numerics; missing or
// unparseable values become 0.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

type userState struct {
	MarginSummary struct {
		AccountValue string `json:"accountValue"`
	} `json:"marginSummary"`
}

// AccountValue returns the account's margin value in USD. An empty or
// malformed response yields 0.
func (c *Client) AccountValue(ctx context.Context, account models.Account) (float64, error) {
	var states []userState
	if err := c.post(ctx, "userState", account, &states); err != nil {
		return 0, err
	}
	if len(states) == 0 {
		return 0, nil
	}
	return parseFloat(states[0].MarginSummary.AccountValue), nil
}

type ledgerUpdate struct {
	Time     int64  `json:"time"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// LatestUSDCDeposit returns the amount of the account's most recent USDC
// deposit, selected by timestamp, not by amount. No deposits yields 0.
func (c *Client) LatestUSDCDeposit(ctx context.Context, account models.Account) (float64, error) {
	var updates []ledgerUpdate
	if err := c.post(ctx, "userNonFundingLedgerUpdates", account, &updates); err != nil {
		return 0, err
	}

	var latest *ledgerUpdate
	for i := range updates {
		u := &updates[i]
		if u.Type != "deposit" || u.Currency != "USDC" {
			continue
		}
		if latest == nil || u.Time > latest.Time {
			latest = u
		}
	}
	if latest == nil {
		return 0, nil
	}
	return parseFloat(latest.Amount), nil
}

type openOrder struct {
	Order struct {
		Timestamp int64  `json:"timestamp"`
		LimitPx   string `json:"limitPx"`
		Sz        string `json:"sz"`
		Side      string `json:"side"`
		Coin      string `json:"coin"`
		OrderType string `json:"orderType"`
	} `json:"order"`
}

// OpenLimitOrders returns the account's open orders, restricted at the
// source to orderType "Limit".
func (c *Client) OpenLimitOrders(ctx context.Context, account models.Account) ([]models.Order, error) {
	var raw []openOrder
	if err := c.post(ctx, "openOrders", account, &raw); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(raw))
	for _, item := range raw {
		if item.Order.OrderType != "Limit" {
			continue
		}
		orders = append(orders, models.Order{
			Timestamp: item.Order.Timestamp,
			Price:     parseFloat(item.Order.LimitPx),
			Size:      parseFloat(item.Order.Sz),
			Side:      models.Side(item.Order.Side),
			Coin:      item.Order.Coin,
		})
	}
	return orders, nil
}
