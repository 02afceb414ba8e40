// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes users, meal plans and food lookup over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/macro-tracker/internal/mealplan"
	"github.com/pdiddy/macro-tracker/internal/search"
	"github.com/pdiddy/macro-tracker/internal/store"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

// DefaultAddr is the listen address used when the config leaves it unset.
const DefaultAddr = ":8080"

// DefaultAllowedOrigins are the web client's development origins.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

const shutdownTimeout = 10 * time.Second

// FoodClient is the FDC surface the API needs. *fdc.Client satisfies it.
type FoodClient interface {
	search.FoodSearcher
	Get(ctx context.Context, fdcID int) (*types.FoodRecord, error)
}

// Server holds the API dependencies and the gin engine.
type Server struct {
	store  *store.Store
	foods  FoodClient
	plans  *mealplan.Service
	cfg    types.Config
	log    *logrus.Logger
	engine *gin.Engine
}

// New builds the server and registers every route.
func New(st *store.Store, foods FoodClient, cfg types.Config, log *logrus.Logger) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	s := &Server{
		store: st,
		foods: foods,
		plans: &mealplan.Service{Store: st, Foods: foods},
		cfg:   cfg,
		log:   log,
	}

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/read-probe", s.readProbe)
	r.GET("/check-live", s.checkLive)

	r.GET("/users", s.listUsers)
	r.GET("/users/:id", s.getUser)
	r.POST("/users", s.createUser)
	r.PUT("/users/:id", s.updateUser)
	r.GET("/users/:id/health", s.userHealth)

	r.GET("/users/:id/meal-plans", s.listPlans)
	r.POST("/users/:id/meal-plans", s.createPlan)
	r.GET("/meal-plans/:planId", s.getPlan)
	r.GET("/meal-plans/:planId/summary", s.planSummary)
	r.POST("/meal-plans/:planId/items", s.addItem)
	r.POST("/meal-plans/:planId/foods", s.addFood)

	r.PUT("/meal-plan-items/:itemId", s.updateItem)
	r.PUT("/meal-plan-items/:itemId/meal-type", s.moveItem)
	r.DELETE("/meal-plan-items/:itemId", s.deleteItem)

	r.GET("/food/search", s.searchFood)
	r.GET("/food/:id", s.getFood)

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Server.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
