package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"whalewatch/internal/config"
	"whalewatch/internal/detector"
	"whalewatch/internal/discovery"
	"whalewatch/internal/hyperliquid"
	"whalewatch/internal/logger"
	"whalewatch/internal/models"
	"whalewatch/internal/scanner"
	"whalewatch/internal/storage"
	"whalewatch/internal/telegram"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func init() {
	// Secrets (bot token, chat id) may live in a .env next to the binary.
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on actual environment variables")
	}
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	journal, err := storage.New(cfg.Storage.MaxAlerts, cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("Failed to initialize alert journal: %v", err)
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Error("Failed to close alert journal: %v", err)
		}
	}()

	venue := hyperliquid.NewClient(
		cfg.Hyperliquid.InfoURL,
		cfg.Hyperliquid.Timeout,
		cfg.Hyperliquid.RequestsPerSec,
	)

	leaderboard := discovery.NewClient(cfg.Discovery.LeaderboardURL, cfg.Discovery.Timeout)

	seeds := make([]models.Account, 0, len(cfg.Discovery.SeedAccounts))
	for _, seed := range cfg.Discovery.SeedAccounts {
		seeds = append(seeds, models.Normalize(seed))
	}
	directory := scanner.NewDirectory(leaderboard, cfg.Discovery.Limit, seeds)

	eligibility := scanner.NewEligibility(venue, cfg.Scanner.MinBalanceUSD, cfg.Scanner.MinDepositUSD)

	det := detector.New(detector.Config{
		MinCount: cfg.Scanner.MinOrderCount,
		Window:   cfg.Scanner.Window,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifier scanner.AlertNotifier
	if cfg.Telegram.Enabled {
		telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		telegramClient.ListenForCommands(ctx)
		notifier = telegramClient
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	scan := scanner.New(directory, eligibility, venue, det, notifier, journal, scanner.Config{
		PollInterval:    cfg.Scanner.PollInterval,
		RefreshInterval: cfg.Scanner.RefreshInterval,
		LaunchStagger:   cfg.Scanner.LaunchStagger,
	})

	logger.Info("Starting whale layering scanner (poll: %v, window: %v, min orders: %d, accounts: %d max)",
		cfg.Scanner.PollInterval,
		cfg.Scanner.Window,
		cfg.Scanner.MinOrderCount,
		cfg.Discovery.Limit,
	)

	scan.Run(ctx)
}
