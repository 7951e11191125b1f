package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"chatrelay/internal/api"
	"chatrelay/internal/config"
	"chatrelay/internal/relay"
	"chatrelay/internal/service/ai"
	"chatrelay/internal/service/asr"
	"chatrelay/internal/upstream"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// An unset upstream address leaves the relay up; its requests fail as misconfigured.
	chatBackend, err := ai.New(ctx, cfg.Chat)
	if errors.Is(err, upstream.ErrNotConfigured) {
		log.Printf("chat backend disabled: %v", err)
		chatBackend = nil
	} else if err != nil {
		log.Fatalf("init chat backend: %v", err)
	}
	transcriber, err := asr.New(cfg.ASR)
	if errors.Is(err, upstream.ErrNotConfigured) {
		log.Printf("speech recognition disabled: %v", err)
		transcriber = nil
	} else if err != nil {
		log.Fatalf("init speech recognition: %v", err)
	}
	log.Printf("chat backend: %s, asr backend: %s", cfg.Chat.Backend, cfg.ASR.Backend)

	handlers := api.NewHandler(
		relay.NewChatRelay(chatBackend),
		relay.NewTranscribeRelay(transcriber),
		cfg.Server.MaxUploadBytes,
	)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8090"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped: %v", err)
	}
}
