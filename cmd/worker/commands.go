package main

import (
	"context"
	"fmt"
	"io"

	"cpme_monitor/pkg/monitor"
	"cpme_monitor/pkg/notifier"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errDeliveryFailed = errors.New("some notifications failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "worker",
		Short:         "Watches the CPME listings page and notifies on count changes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			app, err := newApplication()
			if err != nil {
				return err
			}

			return runDaemon(app)
		},
	}

	root.AddCommand(newNotifyTestCmd(), newFetchCmd())

	return root
}

func newNotifyTestCmd() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "notify-test",
		Short: "Sends a test message through every configured channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication()
			if err != nil {
				return err
			}
			defer func() { _ = app.log.Sync() }()

			setupMetrics(app, nil)
			setupDispatcher(app)

			report := app.dispatcher.DispatchAll(commandContext(cmd), notifier.Message{
				Subject: monitor.Subject,
				Body:    body,
			})

			printReport(cmd.OutOrStdout(), report)

			if report.Count(notifier.StatusFailed) > 0 {
				return errDeliveryFailed
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "message", "m",
		"Test notification from CPME monitor. If you received this, the channel works.",
		"message body to send")

	return cmd
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetches the listing count once and prints it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication()
			if err != nil {
				return err
			}
			defer func() { _ = app.log.Sync() }()

			setupSource(app)

			count, err := app.source.Fetch(commandContext(cmd))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", app.config.TargetURL, count)

			return nil
		},
	}
}

func printReport(w io.Writer, report notifier.Report) {
	for _, o := range report {
		switch o.Status {
		case notifier.StatusSkipped:
			fmt.Fprintf(w, "%-9s %-8s not configured\n", o.Channel, o.Status)
		case notifier.StatusFailed:
			fmt.Fprintf(w, "%-9s %-8s %s: %v\n", o.Channel, o.Status, o.Recipient, o.Err)
		default:
			fmt.Fprintf(w, "%-9s %-8s %s\n", o.Channel, o.Status, o.Recipient)
		}
	}

	fmt.Fprintf(w, "\nsent %d, failed %d, skipped %d\n",
		report.Count(notifier.StatusSent),
		report.Count(notifier.StatusFailed),
		report.Count(notifier.StatusSkipped),
	)
}

// cobra leaves Context nil when executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
