package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"motioncore/internal/config"
	"motioncore/internal/game"
	"motioncore/internal/logger"
)

func main() {
	profile := flag.String("profile", "profiles/default.yaml", "motion profile")
	level := flag.String("level", "levels/playground.yaml", "level file")
	flag.Parse()

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	cfg, err := config.Load(*profile)
	if err != nil {
		logger.L().WithError(err).Warn("Using default profile")
		cfg = config.Default()
	}
	log := logger.Init(cfg.Logging)

	g, err := game.New(cfg, *level)
	if err != nil {
		log.WithError(err).Fatal("Failed to start sandbox")
	}
	g.Run()
}
