package main

import (
	"flag"
	"log"
	"os"

	"ImpulseScan/internal/di"
	"ImpulseScan/pkg/config"
	"ImpulseScan/pkg/server"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	modeFlag := flag.String("mode", string(server.ModeOnce), "once, serve or worker")
	flag.Parse()

	mode, err := server.ParseMode(*modeFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run blocks until the pass ends or a signal arrives
	err = app.Run(mode)
	cleanup()
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
