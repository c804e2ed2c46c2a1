package web

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	appLog "freeslot/internal/log"
)

// StartRefresh schedules periodic re-fetching of the calendar source on the
// configured cron expression so that query handlers usually hit a warm
// cache. The returned cron is stopped when ctx is cancelled.
func (s *Server) StartRefresh(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(s.cfg.RefreshCron, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.refreshDocument(refreshCtx); err != nil {
			appLog.Error("scheduled calendar refresh failed", err, "id", s.cfg.ICS.ID)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	appLog.Info("calendar refresh scheduled", "cron", s.cfg.RefreshCron)

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return c, nil
}
