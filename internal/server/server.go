/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the profile
store, session store and model provider into the router.
*/
package server

import (
	"net/http"
	"time"

	"gymbuddy/internal/coach"
	"gymbuddy/internal/config"
	"gymbuddy/internal/database"
	"gymbuddy/internal/textgen"
	"gymbuddy/internal/user"
	"gymbuddy/internal/utility"

	"github.com/gorilla/sessions"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	cfg *config.Config

	// db keeps onboarding profiles per session.
	db database.Service

	// model lazily builds the text generation backend.
	model *textgen.Provider

	sessions sessions.Store
	users    *user.Handler

	startTime time.Time
}

func New(cfg *config.Config, db database.Service, model *textgen.Provider) *Server {
	store := utility.NewSessionStore(cfg.SecretKey, cfg.SessionMaxAge, cfg.IsProduction())

	return &Server{
		cfg:       cfg,
		db:        db,
		model:     model,
		sessions:  store,
		users:     user.NewHandler(db, store, coach.NewService(model)),
		startTime: time.Now(),
	}
}

// NewHTTPServer returns a configured *http.Server with production-ready
// network timeouts. The write timeout leaves room for slow model replies.
func (s *Server) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.cfg.ModelTimeout*3 + 30*time.Second,
	}
}
