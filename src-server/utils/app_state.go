package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	When   *when.Parser

	MetricChans *Metric

	AppCloseSignalChan chan os.Signal

	gracefulShutdownChans []chan struct{}
	gracefulShutdownMu    sync.Mutex
}

func NewAppState() *AppState {
	as := &AppState{}

	as.AppCloseSignalChan = make(chan os.Signal, 1)
	as.MetricChans = NewMetric()

	// date parser for the manual create/update path
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetDatabasePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	return as
}

// CreateGracefulShutdownChan hands out a channel that gets closed when the
// app is shutting down; long-lived goroutines select on it to clean up.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownMu.Lock()
	defer as.gracefulShutdownMu.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownMu.Lock()
	defer as.gracefulShutdownMu.Unlock()
	for _, ch := range as.gracefulShutdownChans {
		close(ch)
	}
	as.gracefulShutdownChans = nil

	if as.BunDB != nil {
		if err := as.BunDB.Close(); err != nil {
			slog.Warn("can't close database", "error", err)
		}
	}
}
