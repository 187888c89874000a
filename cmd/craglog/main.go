package main

import (
	"log"

	"github.com/mrowan/craglog/internal/config"
	"github.com/mrowan/craglog/internal/db"
	"github.com/mrowan/craglog/internal/filestore/local"
	"github.com/mrowan/craglog/internal/logging"
	"github.com/mrowan/craglog/internal/mediaproc/ffmpeg"
	"github.com/mrowan/craglog/internal/openbeta"
	"github.com/mrowan/craglog/internal/service"
	"github.com/mrowan/craglog/internal/store"
	"github.com/mrowan/craglog/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	areaStore := store.NewAreaStore(database)
	climbStore := store.NewClimbStore(database)
	mediaStore := store.NewMediaStore(database)
	noteStore := store.NewNoteStore(database)

	files, err := local.NewLocalFileStore(cfg.MediaPath)
	if err != nil {
		logger.Error("failed to initialize media storage", "error", err)
		return
	}

	importer := openbeta.NewImporter(
		openbeta.NewClient(cfg.OpenBetaURL, logger),
		areaStore,
		climbStore,
		openbeta.Config{IncludeTrad: true},
		logger,
	)

	catalog := service.NewCatalogService(areaStore, climbStore, logger)
	search := service.NewSearchService(areaStore, climbStore, logger)
	climbs := service.NewClimbService(climbStore, areaStore, mediaStore, noteStore, files, ffmpeg.NewProcessor(), logger)
	admin := service.NewAdminService(areaStore, climbStore, logger)

	server := web.NewServer(catalog, search, climbs, admin, importer, files.BasePath(), cfg.JWTSecret, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
