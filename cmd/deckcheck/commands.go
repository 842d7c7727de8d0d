package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/charts"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/deckservice"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/budget"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/catalog"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/version"
)

func (c *cli) analyzeCmd() *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "analyze <deck>",
		Short: "Run coherence, prize economy and opening hand analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := readDeck(cmd.Context(), a.Service, args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			analysis, err := a.Service.Analyze(cmd.Context(), entries)
			if err != nil {
				return err
			}
			if summary {
				writeSummary(cmd.OutOrStdout(), analysis)
				return nil
			}
			return printJSON(cmd.OutOrStdout(), analysis)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a short text summary instead of JSON")
	return cmd
}

func writeSummary(w io.Writer, a *deckservice.Analysis) {
	coh := a.Coherence
	strategy := "none"
	if coh.PrimaryStrategy != nil {
		strategy = *coh.PrimaryStrategy
	}
	fmt.Fprintf(w, "Coherence:  %d/100 (coherent: %t, strategy: %s)\n", coh.CoherenceScore, coh.IsCoherent, strategy)
	for _, issue := range coh.Issues {
		fmt.Fprintf(w, "  [%s] %s\n", issue.Severity, issue.Title)
	}
	fmt.Fprintf(w, "Prizes:     %d/100 efficiency, %.2f average prize value, liability %d\n",
		a.Prizes.OverallEfficiency, a.Prizes.AveragePrizeValue, a.Prizes.PrizeLiability)
	fmt.Fprintf(w, "Mulligan:   %.1f%% with %d basics\n", a.OpeningHand.MulliganProbability*100, a.OpeningHand.BasicPokemon)
	if a.SnapshotID != "" {
		fmt.Fprintf(w, "Snapshot:   %s\n", a.SnapshotID)
	}
}

func (c *cli) prizesCmd() *cobra.Command {
	var (
		chartPath string
		open      bool
	)
	cmd := &cobra.Command{
		Use:   "prizes <deck>",
		Short: "Analyze the deck's prize economy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := readDeck(cmd.Context(), a.Service, args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			report, err := a.Service.Prizes(cmd.Context(), entries)
			if err != nil {
				return err
			}
			if chartPath == "" {
				return printJSON(cmd.OutOrStdout(), report)
			}

			if err := charts.RenderPrizeEconomyFile(chartPath, report, charts.DefaultChartConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", chartPath)
			if open {
				return charts.OpenInBrowser(chartPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write an HTML chart to this path instead of JSON")
	cmd.Flags().BoolVar(&open, "open", false, "Open the chart in a browser")
	return cmd
}

func (c *cli) optimizeCmd() *cobra.Command {
	var (
		budgetLimit float64
		mode        string
		owned       []string
		maxChanges  int
	)
	cmd := &cobra.Command{
		Use:   "optimize <deck>",
		Short: "Bring the deck under a budget with the fewest, least harmful swaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := readDeck(cmd.Context(), a.Service, args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req := deckservice.OptimizeRequest{
				Entries:      entries,
				Budget:       budgetLimit,
				PriorityMode: mode,
				OwnedCardIDs: owned,
			}
			if cmd.Flags().Changed("max-changes") {
				req.MaxChanges = &maxChanges
			}

			logger := a.Logger()
			result, err := a.Service.Optimize(cmd.Context(), req, func(change budget.DeckChange) {
				logger.Debug("change applied",
					zap.String("action", string(change.Action)),
					zap.String("old", change.OldName),
					zap.String("new", change.NewName),
					zap.Float64("savings", change.Savings))
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().Float64Var(&budgetLimit, "budget", 0, "Maximum deck cost in USD")
	cmd.Flags().StringVar(&mode, "mode", "", "Priority mode: power, consistency or speed (default from config)")
	cmd.Flags().StringSliceVar(&owned, "owned", nil, "Card IDs already owned; these are never replaced")
	cmd.Flags().IntVar(&maxChanges, "max-changes", 0, "Maximum number of swaps (default from config)")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}

func (c *cli) upgradePathCmd() *cobra.Command {
	var (
		maxBudget float64
		steps     int
	)
	cmd := &cobra.Command{
		Use:   "upgrade-path <deck>",
		Short: "List the next upgrade tiers for a budget deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := readDeck(cmd.Context(), a.Service, args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			path, err := a.Service.UpgradePath(cmd.Context(), entries, maxBudget, steps)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), path)
		},
	}
	cmd.Flags().Float64Var(&maxBudget, "max-budget", 0, "Stop once the cumulative cost exceeds this (0 for no limit)")
	cmd.Flags().IntVar(&steps, "steps", 0, "Maximum number of steps (0 for all)")
	return cmd
}

func (c *cli) mulliganCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mulligan <deck>",
		Short: "Show opening hand odds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := readDeck(cmd.Context(), a.Service, args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			report, err := a.Service.Mulligan(cmd.Context(), entries)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}

func (c *cli) importCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-cards <cards.json>",
		Short: "Load a JSON array of cards into the card database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := a.Service.ImportCards(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards\n", n)
			return nil
		},
	}
}

func (c *cli) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the curated card catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init <path.toml>",
		Short: "Write the built-in catalog to an editable TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !strings.HasSuffix(strings.ToLower(args[0]), ".toml") {
				return fmt.Errorf("catalog path must end in .toml: %s", args[0])
			}
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := catalog.Default().WriteTOML(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog written to %s\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Validate a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := catalog.LoadFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog OK")
			return nil
		},
	})
	return cmd
}

func (c *cli) dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the card and report database",
	}

	var backupDir string
	backup := &cobra.Command{
		Use:   "backup",
		Short: "Write a verified copy of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.Storage.Backup(cmd.Context(), backupDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s (sha256 %s)\n", info.Path, info.Checksum)
			return nil
		},
	}
	backup.Flags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the database)")

	list := &cobra.Command{
		Use:   "backups",
		Short: "List database backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := backupDir
			if dir == "" {
				a, err := c.open(cmd, true)
				if err != nil {
					return err
				}
				dir = a.Storage.BackupDir()
				_ = a.Close()
			}
			backups, err := storage.ListBackups(dir)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), backups)
		},
	}
	list.Flags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the database)")

	policy := storage.DefaultRetentionPolicy()
	var dryRun bool
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete old report snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Storage.PruneReports(cmd.Context(), policy, dryRun)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	prune.Flags().DurationVar(&policy.MinimumAge, "min-age", policy.MinimumAge, "Never delete snapshots younger than this")
	prune.Flags().IntVar(&policy.KeepPerDeck, "keep", policy.KeepPerDeck, "Newest snapshots always kept per deck and kind")
	prune.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be deleted without deleting")

	cmd.AddCommand(backup, list, prune)
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := c.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			server := api.NewServer(api.ConfigFrom(c.cfg, version.GetVersion()), a.Service, c.logger.Named("api"))
			if err := server.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API server running at http://localhost:%d\n", server.Port())

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "API server port (overrides config)")
	return cmd
}
