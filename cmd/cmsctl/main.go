// Command cmsctl manages site content and records directly against the
// configured store. Every command prints a JSON result envelope.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"clearview/internal/config"
	"clearview/internal/domain"
	"clearview/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	a.close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app holds state shared by all subcommands
type app struct {
	driver     string
	sqlitePath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:   "cmsctl",
		Short: "Manage clearview site content from the command line",
		Long: `Manage ordered content collections and soft-deletable records.

Available subcommands:
  content - List, append, reorder, remove and restore ordered items
  records - List, delete, restore, purge and activate records
  token   - Mint a development admin token`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.driver, "driver", "", "store driver (postgres|sqlite), overrides STORE_DRIVER")
	root.PersistentFlags().StringVar(&a.sqlitePath, "sqlite", "", "SQLite database path, overrides SQLITE_PATH")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log operations to stderr")

	root.AddCommand(a.contentCmd(), a.recordsCmd(), a.tokenCmd())
	return root, a
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.cfg = config.Load()
	if a.driver != "" {
		a.cfg.StoreDriver = a.driver
	}
	if a.sqlitePath != "" {
		a.cfg.SQLitePath = a.sqlitePath
		if a.driver == "" {
			a.cfg.StoreDriver = config.StoreDriverSQLite
		}
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelInfo
	}
	a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// openStore connects on first use and ensures the schema exists.
// The CLI runs outside the server, so the server's cache expires by TTL.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := store.Open(ctx, store.OptionsFromConfig(a.cfg, nil, a.logger))
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a.store = st
	return st, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// printResult writes the result envelope and returns err so the exit code reflects it
func printResult[T any](w io.Writer, data T, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(domain.Capture(data, err)); encErr != nil {
		return encErr
	}
	return err
}
