package cli

import (
	"context"

	"networth/internal/backend"
	"networth/internal/config"
	"networth/internal/log"
	"networth/internal/query"
	"networth/internal/services"
)

// App is the query and mutation surface over one opened backend.
type App struct {
	Queries   *query.Engine
	Mutations *services.SnapshotService
	res       *backend.BackendResult
}

// NewApp wires the query engine and snapshot service over res.
func NewApp(res *backend.BackendResult, logger *log.Logger) *App {
	return &App{
		Queries:   query.NewEngine(res.Store),
		Mutations: services.NewSnapshotService(res.Store, res.Publisher, logger),
		res:       res,
	}
}

// Close releases the backend, including the event publisher.
func (a *App) Close() error {
	return a.res.Close()
}

// AppOpener opens the backend a command runs against.
type AppOpener func(ctx context.Context, opts *RootOptions) (*App, error)

// BackendOpener opens the sqlite database named by --db, publishing change
// events when cfg enables them.
func BackendOpener(cfg *config.Config, logger *log.Logger) AppOpener {
	return func(ctx context.Context, opts *RootOptions) (*App, error) {
		c := *cfg
		c.DataBackend = config.BackendSQLite
		c.SQLiteDBPath = opts.DBPath
		res, err := OpenBackend(ctx, logger, &c)
		if err != nil {
			return nil, err
		}
		return NewApp(res, logger), nil
	}
}
