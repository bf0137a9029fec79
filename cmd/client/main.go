package main

import (
	"fmt"
	"os"

	"candleview/actor/loader"
	"candleview/app"
	"candleview/config"
	"candleview/datafeed"
	"candleview/pkg/logger"
	"candleview/settings"

	"github.com/anthdm/hollywood/actor"
	"github.com/hajimehoshi/ebiten/v2"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.StringP("config", "c", "candleview.yaml", "path to the YAML config file")
	symbol := flag.StringP("symbol", "s", "", "symbol to open, overrides the config")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *symbol != "" {
		cfg.Feed.Symbol = *symbol
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	feedOpts := []datafeed.Option{
		datafeed.WithLogger(log),
		datafeed.WithTimeout(cfg.Feed.Timeout),
	}
	if cfg.Loader.Retries > 0 {
		feedOpts = append(feedOpts, datafeed.WithRetry(cfg.Loader.Retries, cfg.Loader.RetryInterval))
	}
	feed := datafeed.New(cfg.Feed.BaseURL, feedOpts...)

	engine, err := actor.NewEngine(actor.NewEngineConfig())
	if err != nil {
		log.Fatal("start actor engine", zap.Error(err))
	}
	pid := engine.Spawn(loader.New(feed,
		loader.WithTTL(cfg.Loader.CacheTTL),
		loader.WithMaxEntries(cfg.Loader.MaxEntries),
		loader.WithLogger(log),
	), "loader")

	w, h := ebiten.Monitor().Size()
	if w < settings.MinScreenWidth || h < settings.MinScreenHeight {
		log.Warn("screen is smaller than recommended",
			zap.Int("width", w), zap.Int("height", h),
			zap.Int("min_width", settings.MinScreenWidth), zap.Int("min_height", settings.MinScreenHeight))
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("CandleView " + cfg.Feed.Symbol)
	ebiten.SetWindowPosition(0, 0)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	fetcher := loader.NewFetcher(engine, pid, cfg.Loader.RequestTimeout)
	a := app.New(app.Deps{
		Fetcher:      fetcher,
		Cache:        fetcher,
		Query:        cfg.Query(),
		SortBars:     cfg.Loader.SortBars,
		BarWidth:     cfg.Chart.BarWidth,
		Location:     cfg.Location(),
		LoadingDelay: cfg.Loader.LoadingDelay,
		Log:          log,
	})
	a.Start()

	err = ebiten.RunGame(a)
	a.Close()
	<-engine.Poison(pid).Done()
	if err != nil {
		log.Fatal("run", zap.Error(err))
	}
}
