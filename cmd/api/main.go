package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/joho/godotenv"

	"github.com/openalpha/yield-vault/api"
	"github.com/openalpha/yield-vault/metrics"
	"github.com/openalpha/yield-vault/x/vault/localnet"
	vaulttypes "github.com/openalpha/yield-vault/x/vault/types"
)

func main() {
	logger := log.NewLogger(os.Stderr)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found")
	}

	// Command line flags, defaulting to the environment
	host := flag.String("host", envString("VAULT_API_HOST", "0.0.0.0"), "Server host")
	port := flag.Int("port", envInt("VAULT_API_PORT", 8080), "Server port")
	admin := flag.String("admin", os.Getenv("VAULT_ADMIN"), "Bech32 address of the vault administrator")
	treasury := flag.String("treasury", os.Getenv("VAULT_TREASURY"), "Bech32 address receiving commission (defaults to admin)")
	paramsFile := flag.String("params", os.Getenv("VAULT_PARAMS_FILE"), "YAML file with vault params")
	schedule := flag.String("snapshot", envString("VAULT_SNAPSHOT_SCHEDULE", "@every 30s"), "Cron schedule for ledger gauge snapshots")
	devMode := flag.Bool("dev", envBool("VAULT_DEV"), "Enable the dev faucet endpoint")
	benchMode := flag.Bool("bench", false, "Enable benchmark mode (no rate limiting)")
	flag.Parse()

	if *admin == "" {
		logger.Error("an administrator address is required (--admin or VAULT_ADMIN)")
		os.Exit(1)
	}
	if *treasury == "" {
		*treasury = *admin
	}

	params := vaulttypes.DefaultParams()
	if *paramsFile != "" {
		loaded, err := api.LoadParams(*paramsFile)
		if err != nil {
			logger.Error("failed to load params", "file", *paramsFile, "error", err)
			os.Exit(1)
		}
		params = loaded
	}

	collector := metrics.GetCollector()
	service, err := api.NewService(localnet.Config{
		Authority: *admin,
		Treasury:  *treasury,
		Params:    params,
		Logger:    logger,
	}, api.WithMetrics(collector))
	if err != nil {
		logger.Error("failed to start vault", "error", err)
		os.Exit(1)
	}

	config := api.DefaultConfig()
	config.Host = *host
	config.Port = *port
	config.DevMode = *devMode
	config.DisableRateLimit = *benchMode
	config.SnapshotSchedule = *schedule

	server, err := api.NewServer(config, service, collector, logger)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	logger.Info("Yield Vault API started",
		"host", *host,
		"port", *port,
		"admin", *admin,
		"treasury", *treasury,
		"params", params.String(),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("Server exited")
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
