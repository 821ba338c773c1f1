package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/andremfs/bookline/internal/config"
	"github.com/andremfs/bookline/internal/database"
	booklineHttp "github.com/andremfs/bookline/internal/http"
	importHandler "github.com/andremfs/bookline/internal/http/importtab"
	projectHandler "github.com/andremfs/bookline/internal/http/project"
	txHandler "github.com/andremfs/bookline/internal/http/transaction"
	"github.com/andremfs/bookline/internal/importer"
	"github.com/andremfs/bookline/internal/project"
	projectStore "github.com/andremfs/bookline/internal/project/store"
	"github.com/andremfs/bookline/internal/transaction"
	txStore "github.com/andremfs/bookline/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	profiles := importer.DefaultProfiles()

	if cfg.Import.ProfilesPath != "" {
		profiles, err = importer.LoadProfiles(cfg.Import.ProfilesPath)
		if err != nil {
			slog.Error("failed to load import profiles", "error", err)
			os.Exit(1)
		}
	}

	var (
		projectService     = project.NewService(projectStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), projectService)
		importService      = importer.NewService(profiles)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		importH      = importHandler.NewHandler(importService, transactionService, projectService, cfg.Import.MaxUploadBytes)
		projectH     = projectHandler.NewHandler(projectService)
	)

	router := booklineHttp.New(transactionH, importH, projectH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
