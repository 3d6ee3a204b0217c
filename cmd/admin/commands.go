package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"superlists/internal/domain/list"
	"superlists/internal/infrastructure/postgres/listener"
	"superlists/internal/shared/config"
)

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the lists and items tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema migrated (%s)\n", s.store.Driver)
			return nil
		},
	}
}

func newListsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print every list with its item count, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			lists, err := s.service.Lists(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tITEMS")
			for _, l := range lists {
				items, err := s.store.Repo.ListItems(ctx, l.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", l.ID, l.CreatedAt.UTC().Format(time.RFC3339), len(items))
			}
			return tw.Flush()
		},
	}
}

func newShowCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a list's items in the order they were added",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			l, err := s.service.GetList(cmd.Context(), args[0])
			if errors.Is(err, list.ErrListNotFound) {
				return fmt.Errorf("list %s not found", args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", l.URL())
			for i, item := range l.Items {
				fmt.Fprintf(out, "%d: %s\n", i+1, item.Text)
			}
			return nil
		},
	}
}

func newWatchCmd(open opener) *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream list events sent with pg_notify until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if s.cfg.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("watch needs STORE_DRIVER=%s", config.DriverPostgres)
			}
			if channel == "" {
				channel = s.cfg.Events.PGChannel
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			l := listener.NewEventListener(s.cfg.Database.ConnectionString(), channel, func(e list.Event) {
				printEvent(out, e)
			}, s.logger)
			l.Start(ctx)

			<-l.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "NOTIFY channel (default $EVENTS_PG_CHANNEL)")
	return cmd
}

func printEvent(w io.Writer, e list.Event) {
	switch e.Name {
	case list.EventListCreated:
		fmt.Fprintf(w, "%s list %s created: %q\n", e.OccurredAt.Format(time.RFC3339), e.ListID, e.Text)
	case list.EventItemAdded:
		fmt.Fprintf(w, "%s list %s item %d: %q\n", e.OccurredAt.Format(time.RFC3339), e.ListID, e.ItemID, e.Text)
	default:
		fmt.Fprintf(w, "%s list %s %s\n", e.OccurredAt.Format(time.RFC3339), e.ListID, e.Name)
	}
}
