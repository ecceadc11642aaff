package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront/internal/cartid"
	"github.com/angelmondragon/storefront/internal/cartview"
	"github.com/angelmondragon/storefront/internal/notify"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/pkg/catalogapi"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/env"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
)

const defaultClientID = "catalogctl"

// ctlConfig is the subset of the server configuration the CLI needs.
type ctlConfig struct {
	API config.APIConfig
	UI  config.UIConfig
}

type rootFlags struct {
	baseURL   string
	statePath string
	clientID  string
	verbose   bool
}

// app wires the view controllers against a sqlite-backed client state so
// the cart survives between invocations.
type app struct {
	out      io.Writer
	logg     *logger.Logger
	client   *catalogapi.Client
	dbClient *db.Client
	notifier *notify.Notifier
	deps     products.Deps
	cart     *cartview.Controller
	unsub    []func()
}

func defaultStatePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "catalogctl", "state.db")
	}
	return "catalogctl.db"
}

func newApp(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (*app, error) {
	_ = godotenv.Load()

	var cfg ctlConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if flags.baseURL != "" {
		cfg.API.BaseURL = flags.baseURL
	}

	level := "warn"
	if flags.verbose {
		level = "debug"
	}
	logg := logger.New(logger.Options{
		ServiceName: "catalogctl",
		Level:       logger.ParseLevel(level),
		Output:      cmd.ErrOrStderr(),
	})

	if err := os.MkdirAll(filepath.Dir(flags.statePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	dbClient, err := db.New(ctx, config.DBConfig{Driver: "sqlite", DSN: flags.statePath, MaxOpenConns: 1, MaxIdleConns: 1}, logg)
	if err != nil {
		return nil, err
	}
	store := session.NewSQLStore(dbClient)
	if err := store.Migrate(ctx); err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("migrating client state: %w", err)
	}

	client := catalogapi.NewClient(
		catalogapi.WithBaseURL(cfg.API.BaseURL),
		catalogapi.WithTimeout(cfg.API.Timeout),
		catalogapi.WithStaticToken(cfg.API.Token),
		catalogapi.WithLogger(logg),
	)

	a := &app{
		out:      cmd.OutOrStdout(),
		logg:     logg,
		client:   client,
		dbClient: dbClient,
		notifier: notify.New(notify.WithDefaultDuration(cfg.UI.NotificationTTL)),
	}
	errOut := cmd.ErrOrStderr()
	unsub, err := a.notifier.Subscribe(func(n notify.Notification) {
		fmt.Fprintf(errOut, "[%s] %s\n", n.Type, n.Message)
	})
	if err == nil {
		a.unsub = append(a.unsub, unsub)
	}

	scope := session.NewScope(store, flags.clientID)
	resolver := cartid.NewResolver(client, logg)
	a.deps = products.Deps{
		Catalog:  client,
		Carts:    resolver,
		Notifier: a.notifier,
		Scope:    scope,
		Logger:   logg,
		PageSize: cfg.UI.PageSize,
	}
	a.cart = cartview.NewController(cartview.Deps{
		Catalog:  client,
		Carts:    resolver,
		Notifier: a.notifier,
		Scope:    scope,
		Logger:   logg,
	})
	return a, nil
}

func (a *app) close() error {
	for _, fn := range a.unsub {
		fn()
	}
	a.notifier.Close()
	return a.dbClient.Close()
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// run builds the app for one command, runs fn and prints either its result
// or the surfaced message.
func run(flags *rootFlags, fn func(ctx context.Context, a *app) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd, flags)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.close(); err != nil {
				a.logg.Error(ctx, "closing catalogctl state", err)
			}
		}()

		result, err := fn(ctx, a)
		if result != nil {
			if perr := a.print(result); perr != nil {
				return perr
			}
		}
		if err != nil {
			return fmt.Errorf("%s", pkgerrors.UserMessage(err, err.Error()))
		}
		return nil
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Browse the product catalog and manage the cart from a terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.baseURL, "api", "", "catalog API base URL (overrides "+config.EnvAPIBaseURL+")")
	root.PersistentFlags().StringVar(&flags.statePath, "state", defaultStatePath(), "sqlite file holding the client state")
	root.PersistentFlags().StringVar(&flags.clientID, "client", defaultClientID, "client id the cart is stored under")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", env.Bool("CATALOGCTL_VERBOSE"), "log catalog requests")

	root.AddCommand(newProductsCmd(flags), newCartCmd(flags), newCategoriesCmd(flags))
	return root
}
