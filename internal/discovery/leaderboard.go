// Package discovery finds candidate accounts by scraping the venue's
// leaderboard page.
package discovery

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"whalewatch/internal/models"
)

// Client scrapes the public leaderboard. It is a thin collaborator: callers
// decide what to do when a scrape fails.
type Client struct {
	leaderboardURL string
	httpClient     *http.Client
}

func NewClient(leaderboardURL string, timeout time.Duration) *Client {
	return &Client{
		leaderboardURL: leaderboardURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Discover returns up to limit account addresses from the leaderboard table,
// skipping the header row and any row that does not hold a canonical address.
func (c *Client) Discover(ctx context.Context, limit int) ([]models.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.leaderboardURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leaderboard request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse leaderboard HTML: %w", err)
	}

	var accounts []models.Account
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || len(accounts) >= limit { // header row
			return
		}
		addr := extractAddress(row)
		if addr == "" {
			return
		}
		account := models.Normalize(addr)
		if err := account.Validate(); err != nil {
			return
		}
		accounts = append(accounts, account)
	})

	if len(accounts) == 0 {
		return nil, fmt.Errorf("no addresses found on leaderboard page")
	}
	return accounts, nil
}

// extractAddress pulls the address cell out of a leaderboard row: the second
// cell when it carries the "address" class, the first otherwise. The cell
// text wins; an anchor's href tail is the fallback.
func extractAddress(row *goquery.Selection) string {
	cells := row.Find("td")
	if cells.Length() < 2 {
		return ""
	}

	cell := cells.Eq(0)
	if second := cells.Eq(1); second.HasClass("address") {
		cell = second
	}

	if text := strings.TrimSpace(cell.Text()); text != "" {
		return text
	}

	href, ok := cell.Find("a").Attr("href")
	if !ok {
		return ""
	}
	parts := strings.Split(href, "/")
	return parts[len(parts)-1]
}
