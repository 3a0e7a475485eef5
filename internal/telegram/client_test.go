package telegram

import (
	"testing"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello World"},
		{"Whale_Layering", "Whale\\_Layering"},
		{"Price: $100.50", "Price: $100\\.50"},
		{"[link](url)", "\\[link\\]\\(url\\)"},
		{"Count: 71!", "Count: 71\\!"},
		{"Side: B-A", "Side: B\\-A"},
		{"{brace}", "\\{brace\\}"},
		{"", ""},
		{"_*[]()~`>#+-=|{}.!", "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := escapeMarkdownV2(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewClient_InvalidChatID(t *testing.T) {
	// The bot token validation happens first (network call), so a clearly
	// invalid token plus a non-numeric chat ID must both surface as errors.
	_, err := NewClient("", "not-a-number")
	if err == nil {
		t.Error("Expected error for invalid client parameters, got nil")
	}
}
