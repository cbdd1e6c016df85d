package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/opendatagr/geoview/pkg/catalog"
	"github.com/opendatagr/geoview/pkg/model"
	"github.com/opendatagr/geoview/pkg/ogc"
	"github.com/opendatagr/geoview/pkg/proxy"
	"github.com/opendatagr/geoview/pkg/resolver"
)

type App struct {
	config     *Config
	logger     *slog.Logger
	catalog    *catalog.Catalog
	dispatcher *resolver.Dispatcher
	fetcher    *proxy.Fetcher
	files      *proxy.FileStore
	basemaps   []model.Basemap
}

func NewApp(cfg *Config) *App {
	logger := slog.Default()

	return &App{
		config:     cfg,
		logger:     logger,
		dispatcher: resolver.NewDispatcher(ogc.NewClient(logger), logger),
		fetcher:    proxy.NewFetcher(cfg.CacheDir, cfg.CacheTTL, logger),
		files:      proxy.NewFileStore(cfg.UploadsDir),
	}
}

func (app *App) loadSources() error {
	if _, err := os.Stat(app.config.Resources); err == nil {
		n, err := catalog.ImportSeed(app.catalog, app.config.Resources)
		if err != nil {
			return err
		}

		app.logger.Info(fmt.Sprintf("loaded %d resources from %s", n, app.config.Resources))
	}

	if app.config.Basemaps != "" {
		bm, err := catalog.LoadBasemaps(app.config.Basemaps)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		app.basemaps = bm
	}

	return app.scanUploads()
}

func (app *App) scanUploads() error {
	return catalog.ScanUploads(app.catalog, app.config.UploadsDir, app.logger)
}

func (app *App) Run() {
	if err := os.MkdirAll(app.config.CacheDir, 0777); err != nil {
		panic(err)
	}
	if err := os.MkdirAll(app.config.UploadsDir, 0777); err != nil {
		panic(err)
	}

	cat, err := catalog.Open(app.config.DB)
	if err != nil {
		panic(err)
	}

	app.catalog = cat
	defer app.catalog.Close()

	if err := app.loadSources(); err != nil {
		panic(err)
	}

	http := NewHttp(app)

	app.logger.Info("listening on " + app.config.Addr)

	go func() {
		if err := http.Listen(app.config.Addr); err != nil {
			panic(err)
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		panic(err)
	}

	defer watcher.Close()

	go app.watch(watcher)

	if err := watcher.Add(app.config.UploadsDir); err != nil {
		panic(err)
	}

	app.loop()
}

func (app *App) watch(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			app.logger.Info(fmt.Sprintf("event: %s", event))

			if err := app.scanUploads(); err != nil {
				app.logger.Error("error", slog.Any("error", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			app.logger.Error("error", slog.Any("error", err))
		}
	}
}

func (app *App) loop() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	<-sigc
}

func main() {
	var configFile = flag.String("config", "geoview.yml", "config file")
	var addr = flag.String("addr", "", "listen address (overrides config)")
	var debug = flag.Bool("debug", false, "")

	flag.Parse()

	var h slog.Handler
	if *debug {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	slog.SetDefault(slog.New(h))

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			panic(err)
		}

		cfg = DefaultConfig()
	}

	if *addr != "" {
		cfg.Addr = *addr
	}

	NewApp(cfg).Run()
}
