package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sharknia/nolog/internal/config"
	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/services"
)

var version = "dev"

type options struct {
	configPath string
	verbose    bool
	jsonOutput bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "nolog",
		Short: "Mirror a Notion database into a Markdown tree",
		Long: `nolog publishes Notion pages marked Ready as Markdown files with a
front matter header, removes pages marked ToBeDeleted, and writes the
resulting status back to Notion.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")
	root.PersistentFlags().BoolVarP(&opts.jsonOutput, "json", "j", false, "Print results as JSON")

	root.AddCommand(newSyncCmd(opts), newMetadataCmd(opts), newVersionCmd(opts))
	return root
}

func newSyncCmd(opts *options) *cobra.Command {
	var (
		watch       bool
		interval    time.Duration
		failOnError bool
	)

	cmd := &cobra.Command{
		Use:   "sync [document-id...]",
		Short: "Publish Ready pages and remove ToBeDeleted pages",
		Long: `Without arguments, sync queries the database for every page in a
trigger status. With arguments, only the named pages are processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && len(args) > 0 {
				return fmt.Errorf("--watch cannot be combined with document ids")
			}

			a, err := setup(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if watch {
				return runWatch(cmd.Context(), a, interval, func(r *domain.SyncResult) {
					_ = printResult(out, r, opts.jsonOutput)
				})
			}

			var result *domain.SyncResult
			if len(args) > 0 {
				result, err = a.engine.SyncDocuments(cmd.Context(), args)
			} else {
				result, err = a.engine.SyncAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			if err := printResult(out, result, opts.jsonOutput); err != nil {
				return err
			}
			return batchOutcome(result, failOnError)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and sync on an interval")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "Time between syncs in watch mode")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "Exit non-zero when any document failed")
	return cmd
}

// batchOutcome decides the exit status of a completed batch. Per-document
// failures are already reported in the result and only fail the command
// when failOnError is set.
func batchOutcome(result *domain.SyncResult, failOnError bool) error {
	if failOnError && result.Stats.Errors > 0 {
		return fmt.Errorf("%d document(s) failed", result.Stats.Errors)
	}
	return nil
}

func runWatch(ctx context.Context, a *app, interval time.Duration, onResult func(*domain.SyncResult)) error {
	scheduler := services.NewScheduler(services.SchedulerConfig{
		Engine:   a.engine,
		Logger:   a.logger,
		Interval: interval,
		OnResult: onResult,
	})
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping")
	scheduler.Stop()
	return nil
}

func newMetadataCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Print the metadata index",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.metadata.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, snap)
			}
			fmt.Fprintf(out, "owner: %s\n", snap.Owner)
			for _, id := range snap.IDs() {
				fmt.Fprintf(out, "%s\t%s\n", id, snap.Records[id].Path)
			}
			return nil
		},
	}
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			if opts.jsonOutput {
				_ = printJSON(cmd.OutOrStdout(), map[string]string{"version": version})
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "nolog %s\n", version)
		},
	}
}

func printResult(w io.Writer, r *domain.SyncResult, asJSON bool) error {
	if asJSON {
		return printJSON(w, r)
	}

	for _, d := range r.Documents {
		detail := d.Path
		if d.Action == domain.SyncActionFailed {
			detail = d.Error
		}
		fmt.Fprintf(w, "%-8s %s  %s\n", d.Action, d.DocumentID, detail)
	}
	fmt.Fprintf(w, "updated=%d deleted=%d errors=%d duration=%.2fs\n",
		r.Stats.DocumentsUpdated, r.Stats.DocumentsDeleted, r.Stats.Errors, r.Duration)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
