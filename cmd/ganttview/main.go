package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"ganttview/internal/capture"
	"ganttview/internal/config"
	"ganttview/internal/dataset"
	"ganttview/internal/gantt"
	appLog "ganttview/internal/log"
	"ganttview/internal/model"
	"ganttview/internal/textview"
	"ganttview/internal/web"
)

// flagConfig holds CLI flag values; non-empty ones override the config file.
type flagConfig struct {
	configPath string
	listen     string
	data       string
	logLevel   string
	print      bool
	snapshot   string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyFlags(conf, flags)

	if err := appLog.Setup(appLog.ParseLevel(conf.LogLevel), conf.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, "log setup:", err)
		os.Exit(1)
	}
	defer appLog.Sync()

	appLog.Info("ganttview starting", "version", "0.1.0")
	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"data", conf.Data,
		"refresh", conf.RefreshCron,
		"date_chunks", conf.Chart.DateChunks,
		"cell_width", conf.Chart.CellWidth,
		"group_by_series", conf.Chart.GroupBySeries,
		"group_by_id", conf.Chart.GroupByID,
		"print", flags.print,
		"snapshot", flags.snapshot,
	)

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

	if err := run(ctx, conf, flags); err != nil {
		appLog.Error("ganttview failed", err)
		appLog.Sync()
		os.Exit(1)
	}
	appLog.Info("ganttview exiting")
}

func run(ctx context.Context, conf *config.Config, flags flagConfig) error {
	src := dataset.FileSource{
		Path:      conf.Data,
		Location:  resolveLocation(conf.Timezone),
		ICSWindow: time.Duration(conf.ICSWindowDays) * 24 * time.Hour,
	}

	groups, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", conf.Data, err)
	}

	chart, err := gantt.New(groups, chartOptions(conf))
	if err != nil {
		return fmt.Errorf("build chart: %w", err)
	}
	if chart.Adjusted > 0 {
		appLog.Info("overlapping series moved", "count", chart.Adjusted)
	}

	if flags.print {
		fmt.Print(textview.Render(chart, textview.Options{}))
		return nil
	}
	if flags.snapshot != "" {
		return runSnapshot(ctx, conf, chart, flags.snapshot)
	}

	srv := web.NewServer(conf, chart)

	if conf.RefreshCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(conf.RefreshCron, func() { reload(ctx, src, srv) }); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", conf.RefreshCron, err)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
		appLog.Info("dataset refresh scheduled", "cron", conf.RefreshCron)
	}

	return srv.ListenAndServe(ctx)
}

// reload re-reads the dataset and swaps the served chart. Failures keep the
// current chart.
func reload(ctx context.Context, src dataset.Source, srv *web.Server) {
	groups, err := src.Load(ctx)
	if err != nil {
		appLog.Error("dataset reload failed", err)
		return
	}
	if err := srv.Reload(groups); err != nil {
		appLog.Error("chart rebuild failed", err)
	}
}

// runSnapshot serves the chart on a loopback port and screenshots it.
func runSnapshot(ctx context.Context, conf *config.Config, chart *gantt.Chart, out string) error {
	local := *conf
	local.BasicAuth = nil
	local.RateLimit.PerMinute = 0

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	hs := &http.Server{Handler: web.NewServer(&local, chart).Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("snapshot server failed", err)
		}
	}()
	defer hs.Close()

	url := "http://" + ln.Addr().String() + "/"
	appLog.Info("capturing chart", "url", url, "output", out)
	return capture.CaptureChartPNG(ctx, capture.CaptureOptions{
		URL:        url,
		OutputPath: out,
		Width:      chart.Width() + 32,
	})
}

// chartOptions builds layout options from the config and logs every
// interaction.
func chartOptions(conf *config.Config) gantt.Options {
	opts := conf.Chart.Options()
	opts.Behavior.OnClick = logBlock("block clicked")
	opts.Behavior.OnDrag = logBlock("block dragged")
	opts.Behavior.OnResize = logBlock("block resized")
	return opts
}

func logBlock(msg string) func(model.BlockData) {
	return func(bd model.BlockData) {
		appLog.Info(msg, "id", bd["id"], "name", bd["name"], "start", bd["start"], "end", bd["end"])
	}
}

func resolveLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to UTC", err, "name", name)
		return time.UTC
	}
	return loc
}

func applyFlags(conf *config.Config, f flagConfig) {
	if f.listen != "" {
		conf.Listen = f.listen
	}
	if f.data != "" {
		conf.Data = f.data
	}
	if f.logLevel != "" {
		conf.LogLevel = f.logLevel
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./ganttview.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.data, "data", "", "Schedule file or directory (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "", "debug, info, warn or error (overrides config if set)")
	flag.BoolVar(&cfg.print, "print", false, "Print the chart to the terminal and exit")
	flag.StringVar(&cfg.snapshot, "snapshot", "", "Write a PNG screenshot of the chart to this path and exit")

	flag.Parse()

	return cfg
}
