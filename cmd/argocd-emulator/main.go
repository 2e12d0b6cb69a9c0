package main

import (
	"context"
	"os"

	"github.com/jonboulle/clockwork"
	mcp_server "github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/devcanvas-labs/argocd-emulator/internal/config"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/engine"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/external"
	"github.com/devcanvas-labs/argocd-emulator/internal/gitops/notify"
	"github.com/devcanvas-labs/argocd-emulator/internal/logging"
	"github.com/devcanvas-labs/argocd-emulator/internal/server"
	"github.com/devcanvas-labs/argocd-emulator/internal/tools"
)

func main() {
	log := logging.GetLogger()

	log.WithFields(logrus.Fields{
		"version": "1.0.0",
		"pid":     os.Getpid(),
	}).Info("Starting Argo CD emulator")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	log.WithFields(logrus.Fields{
		"tick_interval": cfg.TickInterval,
		"timezone":      cfg.Timezone,
		"seed_file":     cfg.SeedFile,
	}).Debug("Configuration resolved")

	clock := clockwork.NewRealClock()
	resolver := external.NewFakeResolver()
	syncer := external.NewSimSyncer(clock, cfg.HookDuration, cfg.ApplyDuration)
	transport := external.NewRecordingTransport()
	eng := engine.New(cfg, clock, resolver, syncer, notify.NewDispatcher(transport, clock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		eng.Run(ctx)
	}()

	var store *external.FileStore
	if cfg.SeedFile != "" {
		store = external.NewFileStore(cfg.SeedFile)
		if err := eng.LoadSeed(ctx, store); err != nil {
			log.WithError(err).Fatal("Loading seed state failed")
		}
		log.WithField("file", cfg.SeedFile).Info("Seed state loaded")
	}

	log.Debug("Creating MCP server instance")
	s := server.New()

	log.Debug("Registering tools")
	tools.RegisterAll(s, eng)
	log.Info("All tools registered successfully")

	log.Info("Argo CD emulator started. Waiting for requests on stdin...")
	serveErr := mcp_server.ServeStdio(s)

	cancel()
	<-engineDone

	if store != nil {
		if err := store.Save(context.Background(), eng.ExportState()); err != nil {
			log.WithError(err).Error("Saving state failed")
		} else {
			log.WithField("file", cfg.SeedFile).Info("State saved")
		}
	}
	if serveErr != nil {
		log.WithError(serveErr).Fatal("Server error")
	}
}
