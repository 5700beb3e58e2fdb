package database

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/docrepos"
	inmemdb "github.com/gabriel-goncalves1122/SGPA/storage/database/inmem"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/mongodb"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/postgres"
)

// pingDelay is the delay unit between ping attempts, mockable in tests.
var pingDelay = 100 * time.Millisecond

// Open connects to the configured engine, waits for it to be ready, brings the postgres schema
// up to date and declares the unique indexes.
func Open(ctx context.Context, conf *core.Config, logger core.Logger) (core.DocStore, error) {
	var store core.DocStore
	switch conf.Database.Engine {
	case core.EngineMemory:
		db, err := inmemdb.Open()
		if err != nil {
			return nil, errors.Wrap(err, "opening in-memory store")
		}
		store = db
	case core.EngineMongo:
		db, err := mongodb.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		store = db
	case core.EnginePostgres:
		db, err := postgres.Open(conf)
		if err != nil {
			return nil, err
		}
		store = db
	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}

	if err := ping(ctx, store); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	if pg, ok := store.(*postgres.DB); ok {
		if err := pg.Migrate("up"); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
	}
	if err := docrepos.EnsureIndexes(ctx, store); err != nil {
		_ = store.Close(ctx)
		return nil, errors.Wrap(err, "ensuring indexes")
	}
	logger.Info("database ready", map[string]interface{}{"engine": conf.Database.Engine})
	return store, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, store core.DocStore) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = store.Ping(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * pingDelay):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}
