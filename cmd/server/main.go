package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/quizforge/quizforge/internal/api/http"
	"github.com/quizforge/quizforge/internal/audit"
	auth "github.com/quizforge/quizforge/internal/auth/middleware"
	"github.com/quizforge/quizforge/internal/cert"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/content"
	"github.com/quizforge/quizforge/internal/db"
	"github.com/quizforge/quizforge/internal/grading"
	"github.com/quizforge/quizforge/internal/quiz"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	store := quiz.NewSQLStore(dbh)
	svc := quiz.NewService(store, grading.NewGrader(), cert.NewIssuer(store), audit.NewLog(dbh))

	if cfg.LoadDemoData {
		if err := content.LoadDemo(ctx, store); err != nil {
			log.Fatalf("demo data: %v", err)
		}
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret, accounts(cfg))

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin)).
			Post("/quizzes", api.UploadQuizHandler(store))
		pr.Get("/quizzes/{quizID}", api.GetQuizHandler(store))

		pr.Post("/attempts", api.StartAttemptHandler(svc))
		pr.Post("/attempts/{attemptID}/submit", api.SubmitAttemptHandler(svc))
		pr.Get("/attempts/{attemptID}", api.GetAttemptHandler(svc))
		pr.Get("/attempts", api.ListAttemptsHandler(store))
		pr.Get("/history", api.AttemptHistoryHandler(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// accounts parses the configured "role:hash" credential strings. Entries that
// do not parse are skipped with a warning rather than killing startup.
func accounts(cfg config.Config) map[string]auth.Account {
	out := make(map[string]auth.Account, len(cfg.Accounts))
	for name, cred := range cfg.Accounts {
		role, hash, ok := strings.Cut(cred, ":")
		if !ok || role == "" || hash == "" {
			log.Printf("skipping malformed account entry for %q", name)
			continue
		}
		out[name] = auth.Account{Role: role, PasswordHash: hash}
	}
	return out
}
