package dwhdef

import (
	"context"
	"log/slog"

	"github.com/sparkify/dwhdef/database"
	"github.com/sparkify/dwhdef/schema"
)

type Options struct {
	SkipDrop    bool
	BeforeApply string
	Logger      database.Logger
}

// Run resets the catalog's tables on one session of db. db stays open; the caller closes it.
func Run(ctx context.Context, db database.Database, catalog schema.Catalog, options *Options) error {
	if options == nil {
		options = &Options{}
	}
	logger := options.Logger
	if logger == nil {
		logger = database.StdoutLogger{}
	}

	conn, err := database.Connect(ctx, db)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, ok := db.(*database.DryRunDatabase); ok {
		logger.Println("-- dry run --")
	} else {
		logger.Println("-- Apply --")
	}

	if len(options.BeforeApply) > 0 {
		if err := database.ExecuteAll(ctx, conn, database.PhaseBeforeApply, []string{options.BeforeApply}, logger); err != nil {
			return err
		}
	}

	drops := catalog.Drop
	if options.SkipDrop {
		for _, ddl := range drops {
			logger.Printf("-- Skipped: %s;\n", ddl)
		}
		drops = nil
	}

	if err := database.ResetSchema(ctx, conn, drops, catalog.Create, logger); err != nil {
		return err
	}
	slog.Info("Tables reset", "drop_statements", len(drops), "create_statements", len(catalog.Create))
	return nil
}
