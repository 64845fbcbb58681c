// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/poiesic/jobhunter/core"
)

// DefaultShutdownTimeout bounds graceful shutdown in Run.
const DefaultShutdownTimeout = 5 * time.Second

// Form messages shown on the search page.
const (
	MsgEmptyQuery  = "Please enter search terms."
	MsgSearchError = "Error executing search: %v"
)

//go:embed templates/*.html
var templateFS embed.FS

// Searcher runs a search with an explicit query.
// *jobhunter.Hunter satisfies it.
type Searcher interface {
	Search(ctx context.Context, override string) ([]*core.Candidate, error)
}

// Result is the JSON form of a ranked job.
type Result struct {
	ID      uint64  `json:"id"`
	Title   string  `json:"title"`
	Link    string  `json:"link"`
	Snippet string  `json:"snippet"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// SearchResponse is returned by GET /api/search.
type SearchResponse struct {
	Query   string   `json:"query"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Server is the HTTP front-end for a Searcher.
type Server struct {
	searcher        Searcher
	engine          *gin.Engine
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithShutdownTimeout sets how long Run waits for in-flight requests.
// Default is DefaultShutdownTimeout.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		if timeout <= 0 {
			return ErrInvalidShutdownTimeout
		}
		s.shutdownTimeout = timeout
		return nil
	}
}

// New builds the router for searcher.
func New(searcher Searcher, opts ...Option) (*Server, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	s := &Server{
		searcher:        searcher,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "web")

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"score": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.handleIndex)
	engine.POST("/", s.handleSubmit)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	api.GET("/search", s.handleAPISearch)

	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"query": ""})
}

func (s *Server) handleSubmit(c *gin.Context) {
	q, err := core.NormalizeQuery(c.PostForm("query"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "index.html", gin.H{"error": MsgEmptyQuery, "query": ""})
		return
	}

	jobs, err := s.searcher.Search(c.Request.Context(), q)
	if err != nil {
		s.logger.Error("search failed", "query", q, "error", err)
		c.HTML(http.StatusInternalServerError, "index.html", gin.H{
			"error": fmt.Sprintf(MsgSearchError, err),
			"query": q,
		})
		return
	}

	c.HTML(http.StatusOK, "results.html", gin.H{"query": q, "jobs": jobs})
}

func (s *Server) handleAPISearch(c *gin.Context) {
	q, err := core.NormalizeQuery(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	jobs, err := s.searcher.Search(c.Request.Context(), q)
	if err != nil {
		s.logger.Error("search failed", "query", q, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := SearchResponse{
		Query:   q,
		Total:   len(jobs),
		Results: make([]Result, 0, len(jobs)),
	}
	for _, job := range jobs {
		resp.Results = append(resp.Results, Result{
			ID:      uint64(job.Id),
			Title:   job.Title,
			Link:    job.Link,
			Snippet: job.Snippet,
			Source:  job.Source,
			Score:   job.Score,
		})
	}
	c.JSON(http.StatusOK, resp)
}
