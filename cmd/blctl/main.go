package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/andremfs/bookline/internal/config"
	"github.com/andremfs/bookline/internal/database"
	"github.com/andremfs/bookline/internal/importer"
	"github.com/andremfs/bookline/internal/project"
	projectStore "github.com/andremfs/bookline/internal/project/store"
	"github.com/andremfs/bookline/internal/transaction"
	txStore "github.com/andremfs/bookline/internal/transaction/store"
)

var rootCmd = &cobra.Command{
	Use:           "blctl",
	Short:         "Bookline command line tool",
	Long:          "blctl imports tabular data into Bookline and inspects the ledger without going through the API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

type services struct {
	db       *sql.DB
	imports  *importer.Service
	txs      *transaction.Service
	projects *project.Service
}

// connect wires the full service stack against the configured database.
// Callers must Close the db.
func connect(profilesPath string) (*services, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if profilesPath == "" {
		profilesPath = cfg.Import.ProfilesPath
	}

	profiles := importer.DefaultProfiles()

	if profilesPath != "" {
		profiles, err = importer.LoadProfiles(profilesPath)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	projectSvc := project.NewService(projectStore.New(db))

	return &services{
		db:       db,
		imports:  importer.NewService(profiles),
		txs:      transaction.NewService(txStore.New(db), projectSvc),
		projects: projectSvc,
	}, nil
}

func main() {
	rootCmd.AddCommand(importCmd, ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
