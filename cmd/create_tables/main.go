package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"github.com/sparkify/dwhdef"
	"github.com/sparkify/dwhdef/config"
	"github.com/sparkify/dwhdef/database"
	"github.com/sparkify/dwhdef/driver"
	"github.com/sparkify/dwhdef/schema"
	"github.com/sparkify/dwhdef/util"
	"golang.org/x/term"
)

// version and revision are set via -ldflags
var version = "dev"
var revision = "HEAD"

type cliOptions struct {
	Config      string `short:"c" long:"config" description:"INI file with a [CLUSTER] section" value-name:"dwh.cfg" default:"dwh.cfg"`
	EnvFile     string `long:"env-file" description:"Load DWH_* overrides from this file when it exists" value-name:"path" default:".env"`
	Catalog     string `long:"catalog" description:"YAML file with drop/create statement lists, instead of the built-in Sparkify tables" value-name:"catalog.yml"`
	Prompt      bool   `long:"password-prompt" description:"Force database password prompt"`
	DryRun      bool   `long:"dry-run" description:"Don't run DDLs but just show them"`
	Export      bool   `long:"export" description:"Just dump the statement catalog to stdout"`
	SkipDrop    bool   `long:"skip-drop" description:"Skip the drop statements and only create tables"`
	BeforeApply string `long:"before-apply" description:"Execute the given string before the drop statements"`
	Help        bool   `long:"help" description:"Show this help"`
	Version     bool   `long:"version" description:"Show this version"`
}

// Return parsed options. --help, --version and stray arguments exit here.
func parseOptions(args []string) *cliOptions {
	var opts cliOptions

	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[OPTIONS]"
	args, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	if opts.Version {
		fmt.Printf("%s (%s)\n", version, revision)
		os.Exit(0)
	}

	if len(args) > 0 {
		fmt.Printf("Unexpected arguments are given: %v\n\n", args)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}
	return &opts
}

// loadCluster resolves and validates the connection settings.
func loadCluster(opts *cliOptions) (config.Cluster, error) {
	if err := config.LoadDotenv(opts.EnvFile); err != nil {
		return config.Cluster{}, err
	}

	cluster, err := config.Load(opts.Config)
	if err != nil {
		return config.Cluster{}, err
	}

	if opts.Prompt {
		fmt.Printf("Enter Password: ")
		pass, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return config.Cluster{}, err
		}
		cluster = cluster.WithPassword(string(pass))
	}

	if util.DebugEnabled() {
		printer := pp.New()
		printer.SetColoringEnabled(false)
		slog.Debug("Resolved cluster configuration", "file", opts.Config, "cluster", printer.Sprint(cluster.Masked()))
	}

	if err := cluster.Validate(); err != nil {
		return config.Cluster{}, fmt.Errorf("%s: %w", opts.Config, err)
	}
	return cluster, nil
}

func openDatabase(cluster config.Cluster, dryRun bool) (database.Database, error) {
	db, err := driver.NewDatabase(cluster.DatabaseConfig())
	if err != nil {
		return nil, err
	}
	if !dryRun {
		return db, nil
	}

	dryRunDB, err := database.NewDryRunDatabase(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return dryRunDB, nil
}

func run(ctx context.Context, opts *cliOptions) error {
	catalog, err := schema.ResolveCatalog(opts.Catalog)
	if err != nil {
		return err
	}

	if opts.Export {
		out, err := catalog.Export()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	cluster, err := loadCluster(opts)
	if err != nil {
		return err
	}

	db, err := openDatabase(cluster, opts.DryRun)
	if err != nil {
		return err
	}
	defer db.Close()

	return dwhdef.Run(ctx, db, catalog, &dwhdef.Options{
		SkipDrop:    opts.SkipDrop,
		BeforeApply: opts.BeforeApply,
	})
}

func main() {
	util.InitSlog()
	opts := parseOptions(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, opts)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}
