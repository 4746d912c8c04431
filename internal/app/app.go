package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/liftoff/internal/compare"
	"github.com/five82/liftoff/internal/config"
	"github.com/five82/liftoff/internal/favorites"
	"github.com/five82/liftoff/internal/kv"
	"github.com/five82/liftoff/internal/kv/filekv"
	"github.com/five82/liftoff/internal/kv/sqlitekv"
	"github.com/five82/liftoff/internal/logging"
	"github.com/five82/liftoff/internal/prefs"
	"github.com/five82/liftoff/internal/query"
	"github.com/five82/liftoff/internal/spacex"
	"github.com/five82/liftoff/internal/state"
	"github.com/five82/liftoff/internal/ui"
)

// Options configure the liftoff TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/liftoff/prefs.toml
}

// Run boots the liftoff TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := logging.OpenFile(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := logFile.Logger
	logger.Info("starting", "api", cfg.APIURL, "storage", cfg.Storage)

	a, err := Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("load prefs failed", "err", err)
	}
	filter := query.Parse(userPrefs.Filter)

	if err := a.StartSync(); err != nil {
		logger.Warn("cross-process sync unavailable", "err", err)
	}
	a.StartListingRefresher(0)

	// Seed the list before the UI starts so the first frame has rows.
	list := a.NewLaunchList()
	defer list.Close()
	seed, err := a.FirstPage(ctx, filter)
	if err != nil {
		logger.Warn("initial page failed", "err", err)
	}
	list.Reset(filter, seed)

	err = ui.Run(ctx, ui.Options{
		Context:   ctx,
		API:       a.API,
		Favorites: a.Favorites,
		Launches:  list,
		Compare:   a.Compare,
		Listing:   a.Listing,
		Filter:    filter,
		Logger:    logger.WithPrefix("ui"),
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// App holds the long-lived components shared by the TUI and the
// subcommands.
type App struct {
	Config    config.Config
	Logger    *log.Logger
	KV        kv.Store
	API       spacex.Fetcher
	Favorites *favorites.Store
	Compare   *compare.Loader
	Listing   *state.Store

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Open builds every component from cfg. Background work started later
// through the App stops when ctx is cancelled or Close is called.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	store, err := openKV(cfg, logger)
	if err != nil {
		return nil, err
	}

	client, err := spacex.NewClient(cfg.APIURL, spacex.WithLogger(logger.WithPrefix("spacex")))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init spacex client: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	return &App{
		Config:    cfg,
		Logger:    logger,
		KV:        store,
		API:       client,
		Favorites: favorites.NewStore(store, favorites.WithLogger(logger.WithPrefix("favorites"))),
		Compare:   compare.NewLoader(client, compare.WithLogger(logger.WithPrefix("compare"))),
		Listing:   &state.Store{},
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

func openKV(cfg config.Config, logger *log.Logger) (kv.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return kv.NewMemory(), nil
	case config.StorageFile:
		store, err := filekv.Open(cfg.StoreDir(), filekv.WithLogger(logger.WithPrefix("kv")))
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return store, nil
	default:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		store, err := sqlitekv.Open(cfg.DatabasePath(),
			sqlitekv.WithPollInterval(cfg.SyncInterval),
			sqlitekv.WithLogger(logger.WithPrefix("kv")),
		)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	}
}

// Close stops background work and releases storage. It is safe to call
// more than once.
func (a *App) Close() error {
	var err error
	a.once.Do(func() {
		a.cancel()
		a.wg.Wait()
		a.Compare.Close()
		err = a.KV.Close()
		if errors.Is(err, kv.ErrClosed) {
			err = nil
		}
	})
	return err
}

func (a *App) goBackground(fn func(ctx context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(a.ctx)
	}()
}
