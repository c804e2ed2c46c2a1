package web

import (
	"context"
	"testing"
)

func TestStartRefreshAcceptsValidCron(t *testing.T) {
	cfg := testConfig(t, "https://example.com/feed.ics")
	s := NewServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := s.StartRefresh(ctx)
	if err != nil {
		t.Fatalf("StartRefresh error: %v", err)
	}
	c.Stop()
}

func TestStartRefreshRejectsBadExpression(t *testing.T) {
	cfg := testConfig(t, "https://example.com/feed.ics")
	cfg.RefreshCron = "not a cron line"
	s := NewServer(cfg)

	if _, err := s.StartRefresh(context.Background()); err == nil {
		t.Error("bad cron expression accepted")
	}
}
