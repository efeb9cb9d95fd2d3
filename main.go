package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbuff/internal/config"
	"github.com/robalobadob/wordbuff/internal/content"
	"github.com/robalobadob/wordbuff/internal/db"
	"github.com/robalobadob/wordbuff/internal/httpserver"
	"github.com/robalobadob/wordbuff/internal/store"
)

func main() {
	_ = godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read environment")
	}
	if lvl, err := zerolog.ParseLevel(env.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !env.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rules, err := config.LoadRules(env.RulesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", env.RulesFile).Msg("failed to load rules")
	}

	pack, err := content.Load(env.ContentDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load content")
	}
	banks, puzzles := pack.Stats()
	log.Info().Int("banks", banks).Int("puzzles", puzzles).Msg("content loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(env.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", env.DBPath).Msg("failed to open database")
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	mem := store.NewMemoryStore()
	go sweep(ctx, mem, env.SessionTTL)

	srv, err := httpserver.New(httpserver.Deps{
		Store: mem,
		DB:    conn,
		Env:   env,
		Rules: rules,
		Pack:  pack,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}
	log.Info().Str("port", env.Port).Msg("starting wordbuff server")
	if err := srv.Start(ctx, ":"+env.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// sweep evicts sessions idle for longer than ttl until ctx is done.
func sweep(ctx context.Context, st store.Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	every := min(ttl/4, 5*time.Minute)
	t := time.NewTicker(max(every, time.Second))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := st.Sweep(ctx, now.Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Msg("sweep sessions")
				continue
			}
			if n > 0 {
				log.Info().Int("evicted", n).Int("live", st.Len()).Msg("idle sessions swept")
			}
		}
	}
}
