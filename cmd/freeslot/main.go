package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freeslot/internal/config"
	"freeslot/internal/freetime"
	"freeslot/internal/ics"
	appLog "freeslot/internal/log"
	"freeslot/internal/web"
)

type flagConfig struct {
	configPath   string
	url          string
	start        string
	end          string
	workStart    int
	workEnd      int
	bufferBefore int
	bufferAfter  int
	serve        bool
	listen       string
	logLevel     string
}

func main() {
	flags := parseFlags()
	appLog.SetLevel(appLog.ParseLevel(flags.logLevel))

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override the config file.
	if flags.url != "" {
		conf.ICS.URL = flags.url
		conf.Normalize()
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.workStart >= 0 {
		conf.WorkStartHour = flags.workStart
	}
	if flags.workEnd >= 0 {
		conf.WorkEndHour = flags.workEnd
	}
	if flags.bufferBefore >= 0 {
		conf.BufferBeforeMin = flags.bufferBefore
	}
	if flags.bufferAfter >= 0 {
		conf.BufferAfterMin = flags.bufferAfter
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.serve {
		runServe(ctx, conf)
		return
	}

	if err := runQuery(ctx, conf, flags); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var fetchErr *ics.FetchError
		if errors.As(err, &fetchErr) {
			fmt.Fprintln(os.Stderr, "Please check if the ICS URL is valid and accessible.")
		}
		os.Exit(1)
	}
}

func runServe(ctx context.Context, conf *config.Config) {
	srv := web.NewServer(conf)
	if _, err := srv.StartRefresh(ctx); err != nil {
		appLog.Error("failed to schedule calendar refresh", err, "cron", conf.RefreshCron)
		os.Exit(1)
	}

	httpSrv := &http.Server{Addr: conf.Listen, Handler: srv.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("HTTP server exited", err)
		os.Exit(1)
	}
	appLog.Info("HTTP server stopped")
}

// runQuery performs a single free-time query and prints one line per day.
func runQuery(ctx context.Context, conf *config.Config, flags flagConfig) error {
	startDate, endDate, err := resolveDates(flags.start, flags.end)
	if err != nil {
		return err
	}

	params := freetime.Params{
		StartDate:     startDate,
		EndDate:       endDate,
		WorkStartHour: conf.WorkStartHour,
		WorkEndHour:   conf.WorkEndHour,
		BufferBefore:  time.Duration(conf.BufferBeforeMin) * time.Minute,
		BufferAfter:   time.Duration(conf.BufferAfterMin) * time.Minute,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	fetcher := ics.NewFetcher(conf.CacheDir)
	doc, err := ics.Load(ctx, fetcher, ics.Source{ID: conf.ICS.ID, URL: conf.ICS.URL})
	if err != nil {
		return err
	}

	result, err := freetime.Compute(doc, params)
	if err != nil {
		return err
	}

	for _, day := range result {
		fmt.Println(freetime.FormatDay(day, conf.TimezoneLabel))
	}
	return nil
}

// resolveDates applies the default query window: tomorrow through
// tomorrow+3 days.
func resolveDates(startStr, endStr string) (time.Time, time.Time, error) {
	var startDate, endDate time.Time
	var err error

	if startStr == "" {
		now := time.Now().UTC()
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	} else {
		startDate, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startStr, err)
		}
	}

	if endStr == "" {
		endDate = startDate.AddDate(0, 0, 3)
	} else {
		endDate, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endStr, err)
		}
	}

	return startDate, endDate, nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", defaultConfigPath(), "Path to config file")
	flag.StringVar(&cfg.url, "url", "", "ICS calendar URL (overrides config if set)")
	flag.StringVar(&cfg.start, "start", "", "Start date YYYY-MM-DD (default: tomorrow)")
	flag.StringVar(&cfg.end, "end", "", "End date YYYY-MM-DD, inclusive (default: start+3 days)")
	flag.IntVar(&cfg.workStart, "work-start", -1, "Working window start hour 0-23 (overrides config)")
	flag.IntVar(&cfg.workEnd, "work-end", -1, "Working window end hour 1-24 (overrides config)")
	flag.IntVar(&cfg.bufferBefore, "buffer-before", -1, "Buffer minutes before each event (overrides config)")
	flag.IntVar(&cfg.bufferAfter, "buffer-after", -1, "Buffer minutes after each event (overrides config)")
	flag.BoolVar(&cfg.serve, "serve", false, "Run the HTTP API server instead of a one-shot query")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug, info, error")

	flag.Parse()

	return cfg
}

func defaultConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.config/freeslot/config.yaml"
	}
	return "./config.yaml"
}
