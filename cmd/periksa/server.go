// cmd/periksa/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Server exposes the pipeline over HTTP. Analyze runs synchronously;
// batch runs detach and report progress over the websocket stream.
type Server struct {
	cfg      *Config
	pipeline *Pipeline
	router   *mux.Router
	http     *http.Server
	upgrader websocket.Upgrader
	hub      *progressHub
	started  time.Time
}

// NewServer wires the HTTP routes
func NewServer(cfg *Config, pipeline *Pipeline) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		hub:     newProgressHub(),
		started: time.Now(),
	}

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/batch", s.handleBatch).Methods(http.MethodPost)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s
}

// Start begins serving; it blocks until the listener fails or closes
func (s *Server) Start() error {
	GetLogger().Info("HTTP API listening on %s", s.cfg.ListenAddr)
	return s.http.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleAnalyze runs one input through the pipeline synchronously
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var input AnalysisInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.RawText == "" && input.URL == "" {
		respondWithError(w, http.StatusBadRequest, "rawText or url is required")
		return
	}

	result := s.pipeline.Run(r.Context(), input)
	code := http.StatusOK
	if !result.Success {
		code = http.StatusUnprocessableEntity
	}
	respondWithJSON(w, code, result)
}

// handleBatch accepts a list of URLs and runs them in the background,
// publishing per-item progress to websocket subscribers.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.URLs) == 0 {
		respondWithError(w, http.StatusBadRequest, "urls is required")
		return
	}

	inputs := make([]AnalysisInput, 0, len(body.URLs))
	for _, u := range body.URLs {
		inputs = append(inputs, AnalysisInput{RawText: u, URL: u})
	}
	total := len(inputs)

	go func() {
		defer RecoverFromPanic("batch")
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(total)*time.Minute)
		defer cancel()

		results := s.pipeline.RunMany(ctx, inputs, s.cfg.RequestDelay(), func(i int, res *AnalysisResult) {
			event := ProgressEvent{
				Index: i + 1,
				Total: total,
				URL:   res.Input.URL,
				Error: res.Error,
			}
			if res.Score != nil {
				event.Classification = res.Score.Classification
			}
			if res.Content != nil {
				event.Scraped = res.Content.Scraped
			}
			s.hub.broadcast(event)
		})
		GetLogger().Info("Batch finished: %s", FormatBatchReport(results))
	}()

	respondWithJSON(w, http.StatusAccepted, map[string]interface{}{
		"accepted": total,
	})
}

// handleHealth reports service status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": s.cfg.Version,
		"uptime":  FormatDuration(time.Since(s.started)),
		"sources": len(s.pipeline.retriever.sources),
	})
}

// handleProgress upgrades to a websocket and streams batch progress events
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		GetLogger().Warning("Websocket upgrade failed: %v", err)
		return
	}
	s.hub.add(conn)
}

// progressHub fans batch progress events out to websocket subscribers
type progressHub struct {
	conns map[*websocket.Conn]bool
	mutex sync.Mutex
}

func newProgressHub() *progressHub {
	return &progressHub{conns: make(map[*websocket.Conn]bool)}
}

func (h *progressHub) add(conn *websocket.Conn) {
	h.mutex.Lock()
	h.conns[conn] = true
	h.mutex.Unlock()

	// Subscribers never send payloads, but the reader must run for
	// close and ping frames to be processed. A read error means the
	// peer is gone.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(conn)
				return
			}
		}
	}()
}

func (h *progressHub) remove(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.conns[conn] {
		delete(h.conns, conn)
		conn.Close()
	}
}

func (h *progressHub) broadcast(event ProgressEvent) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
