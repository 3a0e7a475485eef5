package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"whalewatch/internal/models"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
}

func TestDiscover(t *testing.T) {
	html := `<html><body><table>
		<tr><th>Rank</th><th>Address</th></tr>
		<tr><td>1</td><td class="address">0xB317D2BC2D3D2DF5FA441B5BAE0AB9D8B07283AE</td></tr>
		<tr><td>2</td><td class="address"><a href="/address/0x2ea18c23f72a4b6172c55b411823cdc5335923f4">0x2ea18c23f72a4b6172c55b411823cdc5335923f4</a></td></tr>
		<tr><td>not-an-address</td><td>junk</td></tr>
		<tr><td>0xc44d87a291f54a77adbae7a22becf4522b0c708e</td><td>3</td></tr>
	</table></body></html>`
	srv := serveHTML(t, html)
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	accounts, err := c.Discover(context.Background(), 100)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []models.Account{
		"0xb317d2bc2d3d2df5fa441b5bae0ab9d8b07283ae",
		"0x2ea18c23f72a4b6172c55b411823cdc5335923f4",
		"0xc44d87a291f54a77adbae7a22becf4522b0c708e",
	}
	if len(accounts) != len(want) {
		t.Fatalf("Expected %d accounts, got %d: %v", len(want), len(accounts), accounts)
	}
	for i, w := range want {
		if accounts[i] != w {
			t.Errorf("accounts[%d] = %s, want %s", i, accounts[i], w)
		}
	}
}

func TestDiscover_HrefFallback(t *testing.T) {
	html := `<html><body><table>
		<tr><th>Rank</th><th>Address</th></tr>
		<tr><td>1</td><td class="address"><a href="/address/0xb317d2bc2d3d2df5fa441b5bae0ab9d8b07283ae"></a></td></tr>
	</table></body></html>`
	srv := serveHTML(t, html)
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	accounts, err := c.Discover(context.Background(), 100)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "0xb317d2bc2d3d2df5fa441b5bae0ab9d8b07283ae" {
		t.Errorf("Unexpected accounts: %v", accounts)
	}
}

func TestDiscover_LimitApplied(t *testing.T) {
	html := `<html><body><table>
		<tr><th>Rank</th><th>Address</th></tr>
		<tr><td>1</td><td class="address">0xb317d2bc2d3d2df5fa441b5bae0ab9d8b07283ae</td></tr>
		<tr><td>2</td><td class="address">0x2ea18c23f72a4b6172c55b411823cdc5335923f4</td></tr>
		<tr><td>3</td><td class="address">0xc44d87a291f54a77adbae7a22becf4522b0c708e</td></tr>
	</table></body></html>`
	srv := serveHTML(t, html)
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	accounts, err := c.Discover(context.Background(), 2)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("Expected limit of 2 accounts, got %d", len(accounts))
	}
}

func TestDiscover_EmptyPage(t *testing.T) {
	srv := serveHTML(t, "<html><body><p>maintenance</p></body></html>")
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.Discover(context.Background(), 100); err == nil {
		t.Error("Expected error for page without addresses, got nil")
	}
}

func TestDiscover_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.Discover(context.Background(), 100); err == nil {
		t.Error("Expected error for 502 response, got nil")
	}
}
