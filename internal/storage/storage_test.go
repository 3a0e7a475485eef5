package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"whalewatch/internal/models"
)

func newTestStorage(t *testing.T, maxAlerts int) *Storage {
	t.Helper()
	s, err := New(maxAlerts, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testAnomaly(detectedAt time.Time) *models.Anomaly {
	return &models.Anomaly{
		ID:         uuid.New().String(),
		Account:    "0xb317d2bc2d3d2df5fa441b5bae0ab9d8b07283ae",
		Price:      100.5,
		Count:      71,
		Coin:       "ETH",
		Side:       "B",
		DetectedAt: detectedAt,
		Notified:   true,
	}
}

func TestRecordAndReadBack(t *testing.T) {
	s := newTestStorage(t, 100)

	want := testAnomaly(time.Now())
	if err := s.RecordAnomaly(want); err != nil {
		t.Fatalf("RecordAnomaly failed: %v", err)
	}

	got, err := s.RecentAnomalies(10)
	if err != nil {
		t.Fatalf("RecentAnomalies failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 anomaly, got %d", len(got))
	}

	a := got[0]
	if a.ID != want.ID || a.Account != want.Account || a.Coin != want.Coin || a.Side != want.Side {
		t.Errorf("Round-trip mismatch: %+v", a)
	}
	if a.Price != want.Price || a.Count != want.Count {
		t.Errorf("Price/count mismatch: %+v", a)
	}
	if !a.Notified {
		t.Error("Notified flag lost in round-trip")
	}
	if !a.DetectedAt.Equal(want.DetectedAt) {
		t.Errorf("DetectedAt = %v, want %v", a.DetectedAt, want.DetectedAt)
	}
}

func TestJournalCapDropsOldest(t *testing.T) {
	s := newTestStorage(t, 3)

	base := time.Now()
	var ids []string
	for i := 0; i < 5; i++ {
		a := testAnomaly(base.Add(time.Duration(i) * time.Second))
		ids = append(ids, a.ID)
		if err := s.RecordAnomaly(a); err != nil {
			t.Fatalf("RecordAnomaly failed: %v", err)
		}
	}

	got, err := s.RecentAnomalies(10)
	if err != nil {
		t.Fatalf("RecentAnomalies failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected cap of 3 anomalies, got %d", len(got))
	}
	// Newest first: the two oldest inserts must be gone.
	if got[0].ID != ids[4] || got[2].ID != ids[2] {
		t.Errorf("Unexpected survivors after rotation: %v", got)
	}
}

func TestRecentAnomaliesLimit(t *testing.T) {
	s := newTestStorage(t, 100)

	base := time.Now()
	for i := 0; i < 10; i++ {
		if err := s.RecordAnomaly(testAnomaly(base.Add(time.Duration(i) * time.Millisecond))); err != nil {
			t.Fatalf("RecordAnomaly failed: %v", err)
		}
	}

	got, err := s.RecentAnomalies(4)
	if err != nil {
		t.Fatalf("RecentAnomalies failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("Expected 4 anomalies, got %d", len(got))
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	s := newTestStorage(t, 100)

	a := testAnomaly(time.Now())
	if err := s.RecordAnomaly(a); err != nil {
		t.Fatalf("RecordAnomaly failed: %v", err)
	}
	if err := s.RecordAnomaly(a); err == nil {
		t.Error("Expected primary-key violation for duplicate ID, got nil")
	}
}

func TestEmptyDBPathDefaults(t *testing.T) {
	// Exercise the tmp-dir default without polluting a fixed location.
	s, err := New(10, "")
	if err != nil {
		t.Fatalf("New with empty path failed: %v", err)
	}
	defer s.Close()

	if err := s.RecordAnomaly(testAnomaly(time.Now())); err != nil {
		t.Errorf("RecordAnomaly on default path failed: %v", err)
	}
}
