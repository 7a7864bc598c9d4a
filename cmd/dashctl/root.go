package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/GregMSThompson/dashboard-builder/internal/client/api"
	"github.com/GregMSThompson/dashboard-builder/internal/composer"
	"github.com/GregMSThompson/dashboard-builder/internal/records"
	"github.com/GregMSThompson/dashboard-builder/internal/registry"
	"github.com/GregMSThompson/dashboard-builder/internal/schema"
	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

// app carries the resolved settings shared by every subcommand.
type app struct {
	v        *viper.Viper
	log      *slog.Logger
	registry *registry.Registry
}

var persistentKeys = []string{"server", "token", "password", "output", "log-level"}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), registry: registry.New()}

	root := &cobra.Command{
		Use:   "dashctl",
		Short: "Build and inspect dashboards from the command line",
		Long: `dashctl drives the dashboard REST API: it lists widget types, edits dashboards,
widgets, schemas and records, renders a dashboard to a visual tree, and exports
widget data to a spreadsheet.

Every flag can also be set through the environment, e.g. DASHCTL_SERVER,
DASHCTL_TOKEN and DASHCTL_OUTPUT.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.log = logger.New(a.v.GetString("log-level"), logger.NewConsoleHandler)
		},
	}

	pf := root.PersistentFlags()
	pf.String("server", "http://localhost:8080", "API server URL")
	pf.String("token", "", "Firebase ID token sent as a bearer token")
	pf.String("password", "", "Password for password-protected dashboards")
	pf.StringP("output", "o", "table", "Output format: table, json, yaml")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	for _, key := range persistentKeys {
		_ = a.v.BindPFlag(key, pf.Lookup(key))
	}
	a.v.SetEnvPrefix("DASHCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.typesCmd(),
		a.dashboardsCmd(),
		a.widgetsCmd(),
		a.renderCmd(),
		a.schemaCmd(),
		a.recordsCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) output() string { return a.v.GetString("output") }

func (a *app) client() *apiclient.Client {
	opts := []apiclient.Option{
		apiclient.WithLogger(a.log),
		apiclient.WithRateLimit(10, 5),
	}
	if token := a.v.GetString("token"); token != "" {
		opts = append(opts, apiclient.WithToken(token))
	}
	if pw := a.v.GetString("password"); pw != "" {
		opts = append(opts, apiclient.WithDashboardPassword(pw))
	}
	return apiclient.New(a.v.GetString("server"), opts...)
}

func (a *app) open(ctx context.Context, slug string) (*composer.Session, error) {
	return composer.Open(ctx, a.client(), a.registry, slug,
		composer.WithLogger(a.log),
		composer.WithFetchLimit(4),
		composer.WithRecordValidation(),
	)
}

// editor loads a component's schema and returns a record store bound to it.
func (a *app) editor(ctx context.Context, componentID string) (*records.Store, error) {
	c := a.client()
	sm := schema.NewManager(c, componentID)
	if err := sm.Load(ctx); err != nil {
		return nil, err
	}
	return records.NewStore(c, sm, records.WithValidation()), nil
}
