package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"superlists/internal/domain/list"
	"superlists/internal/infrastructure/store"
	"superlists/internal/shared/config"
	"superlists/internal/shared/logging"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Management commands for superlists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("CONFIG_FILE"), "YAML config file (default $CONFIG_FILE)")

	open := func(cmd *cobra.Command) (*session, error) {
		return openSession(cfgFile)
	}

	rootCmd.AddCommand(
		newMigrateCmd(open),
		newListsCmd(open),
		newShowCmd(open),
		newWatchCmd(open),
	)
	return rootCmd
}

// session bundles what every command needs: the store, a service over it and a logger.
type session struct {
	cfg     *config.Config
	store   *store.Store
	service *list.Service
	logger  *log.Logger
}

type opener func(cmd *cobra.Command) (*session, error)

func openSession(cfgFile string) (*session, error) {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return nil, err
	}

	logger := logging.New(os.Stderr, logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Prefix: "admin"})

	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		store:   st,
		service: list.NewService(st.Repo, nil, logger),
		logger:  logger,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("failed to close store", "err", err)
	}
}
