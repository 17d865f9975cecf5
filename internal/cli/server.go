package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"live-mcq-service/internal/app"
	"live-mcq-service/internal/config"
	"live-mcq-service/internal/infra/memory"
	pgstore "live-mcq-service/internal/infra/postgres"
	rediscache "live-mcq-service/internal/infra/redis"
	transport "live-mcq-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port, staticDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the live MCQ session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, *staticDir)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag, staticFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if staticFlag != "" {
		cfg.Server.StaticDir = staticFlag
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var store app.QuestionStore = memory.NewQuestionStore(memory.SampleQuestions())
	if pool != nil {
		store = pgstore.NewQuestionStore(pool)
	}
	if redisClient != nil {
		questionTTL := config.Duration(cfg.Questions.TTL, 10*time.Minute)
		store = rediscache.NewQuestionCache(redisClient, store, questionTTL)
	}

	// A failing store leaves the session empty; starting it then reports
	// "no questions available" instead of entering a broken round.
	questions, err := store.LoadAll(ctx)
	if err != nil {
		log.Printf("question store unavailable, starting empty: %v", err)
		questions = nil
	}

	session := app.NewSession(questions, app.Options{
		MaxParticipants: cfg.Session.MaxParticipants,
		PreserveScores:  cfg.Session.PreserveScores,
		RoundDeadline:   config.Duration(cfg.Session.RoundDeadline, 0),
	})
	defer session.Close()
	service := app.NewQuizService(session, store)

	wsHandler := transport.NewWSHandler(session)
	questionHandler := transport.NewQuestionHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/questions", questionHandler)
	if cfg.Server.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting live MCQ service on :%s with %d questions", finalPort, session.QuestionCount())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
