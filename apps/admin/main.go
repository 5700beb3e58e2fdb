package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gabriel-goncalves1122/SGPA/core"
	logsvc "github.com/gabriel-goncalves1122/SGPA/services/logger"
	"github.com/gabriel-goncalves1122/SGPA/storage/database"
	"github.com/gabriel-goncalves1122/SGPA/storage/database/postgres"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	rl := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf), "ADMIN", conf)
	rl.Enable(!conf.Debug)
	logger = rl

	if code := run(conf); code != 0 {
		os.Exit(code)
	}
}

func run(conf *core.Config) int {
	ctx := context.Background()
	var cli *commandLine

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		// migrations run against the bare database, before the indexes exist
		cli = &commandLine{out: os.Stdout}
		if conf.Database.Engine == core.EnginePostgres {
			db, err := postgres.Open(conf)
			if err != nil {
				logger.Error("opening database", err)
				return 1
			}
			defer db.Close(ctx)
			cli.migrateFunc = db.Migrate
		}
	} else {
		store, err := database.Open(ctx, conf, logger)
		if err != nil {
			logger.Error("setting up database", err)
			return 1
		}
		defer func() {
			if err := store.Close(ctx); err != nil {
				logger.Error("closing database", err)
			}
		}()
		cli = newCommandLine(conf, store, os.Stdout)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		return 1
	}
	return 0
}
