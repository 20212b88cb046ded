package main

import (
	"flag"
	"fmt"
	"os"

	"todoTracker/internal/config"
	"todoTracker/internal/database"
	"todoTracker/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yml")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [-config path] up|down")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "конфиг:", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		fmt.Fprintln(os.Stderr, "логгер:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch flag.Arg(0) {
	case "up":
		err = database.MigrateUp(cfg.Database.URL)
	case "down":
		err = database.MigrateDown(cfg.Database.URL)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
