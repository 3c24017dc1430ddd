package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/cmd/cli/commands"
	"github.com/wardclerk/interview-scheduler/internal/config"
	"github.com/wardclerk/interview-scheduler/pkg/clients/anthropicclient"
	"github.com/wardclerk/interview-scheduler/pkg/clients/googlecalclient"
	"github.com/wardclerk/interview-scheduler/pkg/clients/graphclient"
	"github.com/wardclerk/interview-scheduler/pkg/core/conversation"
	"github.com/wardclerk/interview-scheduler/pkg/core/scheduler"
	"github.com/wardclerk/interview-scheduler/pkg/db"
	"github.com/wardclerk/interview-scheduler/pkg/postgres"
	"github.com/wardclerk/interview-scheduler/pkg/utils/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verbose := false
	for _, arg := range os.Args[1:] {
		if arg == "--verbose" || arg == "-v" {
			verbose = true
		}
	}

	logger, err := logging.InitLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	blackouts, err := cfg.Blackouts()
	if err != nil {
		return err
	}

	gateways := map[db.Provider]scheduler.CalendarGateway{
		db.ProviderGoogle:    googlecalclient.NewClient(),
		db.ProviderOffice365: graphclient.NewClient(),
	}

	resolver := scheduler.NewResolver(database, gateways, logger, scheduler.ResolverOptions{
		Location:      cfg.Location(),
		Blackouts:     blackouts,
		MemberTimeout: cfg.MemberTimeout(),
	})
	creator := scheduler.NewCreator(database, gateways, logger, cfg.Location())
	model := anthropicclient.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)

	driver := conversation.NewDriver(database, resolver, creator, model, logger, conversation.DriverOptions{
		Location:  cfg.Location(),
		DaysAhead: cfg.DaysAhead,
		SlotLimit: cfg.SlotLimit,
	})

	app := &commands.AppContext{
		Cfg:      cfg,
		Database: database,
		Postgres: database,
		Resolver: resolver,
		Creator:  creator,
		Driver:   driver,
		Logger:   logger,
		Ctx:      ctx,
	}

	rootCmd := &cobra.Command{
		Use:           "interview-scheduler",
		Short:         "Ward interview scheduling assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug output on the console")

	rootCmd.AddCommand(
		commands.ServeCmd(app),
		commands.MigrateCmd(app),
		commands.ListInterviewTypesCmd(app),
		commands.ListAppointmentsCmd(app),
		commands.CancelAppointmentCmd(app),
		commands.ResolveSlotsCmd(app),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", zap.Error(err))
		return err
	}
	return nil
}
