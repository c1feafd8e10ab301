package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/history"
	"campus-lostfound/internal/httpapi"
	"campus-lostfound/internal/llm"
	"campus-lostfound/internal/relay"
	"campus-lostfound/internal/scheduler"
	"campus-lostfound/internal/storage"
	"campus-lostfound/internal/store"
	"campus-lostfound/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	st := store.New(storage.NewFileSnapshotRepository(cfg.DataFilePath))
	if err := st.Load(); err != nil {
		log.Printf("⚠️ starting with empty collections: %v", err)
	}
	stats := st.Stats()
	log.Printf("📦 Loaded %d lost and %d found reports from %s", stats.Lost, stats.Found, cfg.DataFilePath)

	apiKey := config.ResolveAPIKey(cfg.SecretsFilePath, cfg.APIKeyEnv)
	llmClient, reason := chatClient(llm.NewFactory(cfg, apiKey), string(cfg.LLMProvider))
	if reason != "" {
		log.Printf("⚠️ %s", reason)
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	opts := []relay.Option{relay.WithSystemPrompt(readSystemPrompt(cfg.SystemPromptPath))}
	if rec != nil {
		opts = append(opts, relay.WithRecorder(rec))
	}
	rl := relay.New(llmClient, history.NewManagerWithLimit(cfg.HistoryLimit), opts...)

	var wg sync.WaitGroup

	var bot *telegram.Bot
	if cfg.TelegramBotToken != "" {
		b, err := telegram.New(cfg.TelegramBotToken, st, rl, cfg.AdminUserID, cfg.MessageParseMode)
		if err != nil {
			log.Fatalf("failed to create bot: %v", err)
		}
		bot = b
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Start(ctx)
		}()
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, Telegram bot disabled")
	}

	var sched *scheduler.Scheduler
	if bot != nil && cfg.AdminUserID != 0 {
		sched = scheduler.New(cfg.DigestSchedule)
		sched.SetReportFunction(func(ctx context.Context) error {
			return bot.SendDailyDigest(ctx, rec)
		})
		if err := sched.Start(); err != nil {
			log.Printf("❌ failed to start digest scheduler: %v", err)
			sched = nil
		}
	}

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.NewRouter(st, rl),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("🌐 HTTP API listening on %s", cfg.HTTPAddr)
			if err := runServer(ctx, srv); err != nil {
				log.Printf("❌ server error: %v", err)
				stop()
			}
		}()
	}

	if cfg.TelegramBotToken == "" && cfg.HTTPAddr == "" {
		log.Fatal("nothing to run: set TELEGRAM_BOT_TOKEN or HTTP_ADDR")
	}

	<-ctx.Done()
	log.Println("Shutting down...")
	if sched != nil {
		sched.Stop()
	}
	wg.Wait()
}

type clientFactory interface {
	CreateClient(provider string) (llm.Client, error)
}

// chatClient returns the completion client, or nil and the reason AI chat is off.
func chatClient(f clientFactory, provider string) (llm.Client, string) {
	c, err := f.CreateClient(provider)
	switch {
	case err != nil:
		return nil, fmt.Sprintf("failed to create llm client, AI chat disabled: %v", err)
	case c == nil:
		return nil, "AI chat unavailable: no API key configured"
	}
	return c, ""
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("system prompt file not found or unreadable at %s: %v", path, err)
		return ""
	}
	return string(data)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
