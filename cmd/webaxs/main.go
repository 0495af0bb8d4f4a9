// Command webaxs starts the accessibility audit API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/webaxs/webaxs/internal/advisor"
	"github.com/webaxs/webaxs/internal/app"
	"github.com/webaxs/webaxs/internal/logging"
	"github.com/webaxs/webaxs/internal/scanner"
	"github.com/webaxs/webaxs/internal/server"
	"github.com/webaxs/webaxs/internal/store"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	get := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}
	getInt := func(key string, def int) int {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
		return def
	}

	logger := logging.NewStdoutLogger("webaxs")

	st, err := store.NewSQLiteStore(get("DB_PATH", "webaxs.db"), logger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	scanCfg := scanner.DefaultConfig()
	if u := os.Getenv("AXE_SCRIPT_URL"); u != "" {
		scanCfg.AxeScriptURL = u
	}
	sc, err := scanner.NewChromeScanner(scanCfg, logger)
	if err != nil {
		log.Fatalf("creating scanner: %v", err)
	}
	defer sc.Close()

	adv := advisor.NewOpenAIAdvisor(advisor.Config{
		Endpoint: get("OPENAI_ENDPOINT", ""),
		APIKey:   os.Getenv("OPENAI_API_KEY"),
		Model:    get("OPENAI_MODEL", ""),
	}, logger)

	appCfg := app.DefaultConfig()
	appCfg.MaxWorkers = getInt("MAX_WORKERS", appCfg.MaxWorkers)

	orch := app.NewOrchestrator(appCfg, sc, adv, st, logger)

	srv, err := server.NewServer(server.Config{
		ListenAddr:   get("LISTEN_ADDR", ":8080"),
		Orchestrator: orch,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("creating server: %v", err)
	}

	httpSrv := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("server listening", logging.Field{Key: "addr", Value: httpSrv.Addr})
	if err := httpSrv.ListenAndServe(); err != nil {
		logger.Info("server stopped", logging.Field{Key: "reason", Value: err.Error()})
	}
}
