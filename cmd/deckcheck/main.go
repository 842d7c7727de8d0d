// Command deckcheck validates, scores and optimizes Pokémon TCG deck lists
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/app"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/config"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/version"
)

// cli holds the global flags and the state built from them.
type cli struct {
	configPath string
	dbPath     string
	verbose    bool
	offline    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "deckcheck",
		Short:         "Pokémon TCG deck validity and competitive scoring",
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `deckcheck checks a deck list for strategic coherence, scores its prize
economy and suggests cheaper builds within a budget.

Deck files are either JSON (an array of {card, quantity} entries, or an
object with an "entries" field) or a PTCG Live text export. Use "-" to
read from stdin.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file (default: ~/.ptcg-companion/config.toml)")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "Card database path (overrides config)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&c.offline, "offline", false, "Run without the card database")

	root.AddCommand(
		c.analyzeCmd(),
		c.prizesCmd(),
		c.optimizeCmd(),
		c.upgradePathCmd(),
		c.mulliganCmd(),
		c.importCardsCmd(),
		c.catalogCmd(),
		c.dbCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *cli) init() error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFrom(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	c.cfg = cfg

	c.logger, err = cfg.NewLogger(c.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// open builds the application. Commands that cannot work without the card
// database pass needStorage and ignore --offline.
func (c *cli) open(cmd *cobra.Command, needStorage bool) (*app.App, error) {
	return app.New(cmd.Context(), c.cfg, c.logger, app.Options{
		NoStorage:    c.offline && !needStorage,
		DatabasePath: c.dbPath,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
