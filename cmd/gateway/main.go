package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/edukita/schoolhub/internal/api/http"
	"github.com/edukita/schoolhub/internal/audit"
	"github.com/edukita/schoolhub/internal/auth"
	"github.com/edukita/schoolhub/internal/config"
	"github.com/edukita/schoolhub/internal/db"
	"github.com/edukita/schoolhub/internal/exam"
	"github.com/edukita/schoolhub/internal/records"
	"github.com/edukita/schoolhub/internal/school"
	"github.com/edukita/schoolhub/internal/storage"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	examStore := exam.NewSQLStore(dbh)
	userStore := school.NewSQLStore(dbh)
	recStore := records.NewSQLStore(dbh, cfg.DBDriver)
	events := audit.New(dbh)

	examSvc := exam.NewService(examStore, events)
	schoolSvc := school.NewService(userStore, examStore, recStore, cfg.BcryptCost)
	authSvc := auth.NewService(cfg.JWTSecret, cfg.JWTTTL)

	blobs, err := storage.NewFSStore(cfg.BlobBasePath, cfg.PublicURL)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	a := &api.API{
		Auth:     authSvc,
		School:   schoolSvc,
		Exams:    examSvc,
		Records:  recStore,
		Blobs:    blobs,
		Activity: events,
	}
	r.Mount("/", a.Router())

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
