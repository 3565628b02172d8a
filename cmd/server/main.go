package main

import (
	"log/slog"
	"net/http"
	"os"

	"notas/internal/api"
	"notas/internal/auth"
	"notas/internal/config"
	"notas/internal/middleware"
	"notas/internal/store/sqlstore"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize store
	st, err := sqlstore.New(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		log.Error("failed to initialize database", "error", err, "driver", cfg.DBDriver)
		os.Exit(1)
	}
	defer st.Close()

	sessions := auth.NewMemorySessions(cfg.SessionTTL)
	authSvc := auth.NewService(st, sessions)
	handlers := api.NewHandlers(st, authSvc, log)

	mux := http.NewServeMux()

	// Serve the frontend when the static directory exists
	if _, err := os.Stat(cfg.StaticDir); err == nil {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	mux.HandleFunc("/api/register", handlers.RegisterHandler)
	mux.HandleFunc("/api/login", handlers.LoginHandler)
	mux.HandleFunc("/api/logout", handlers.LogoutHandler)
	mux.HandleFunc("/api/notes", handlers.NotesHandler)

	// Apply middleware: Logging -> Auth
	handler := middleware.Logging(log, middleware.Auth(sessions, mux))

	log.Info("server started", "addr", cfg.Addr, "driver", cfg.DBDriver)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
