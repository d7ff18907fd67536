package rendezvous

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Default port the rendezvous endpoint listens on.
const DefaultPort = 2222

// Answer to a rank query.
type RankResponse struct {
	Host  string `json:"host"`
	Rank  int    `json:"rank"`
	Round int    `json:"round"`
	Size  int    `json:"size"`
}

// Answer to a round query.
type RoundResponse struct {
	Round int      `json:"round"`
	Size  int      `json:"size"`
	Hosts []string `json:"hosts"`
}

// Serves rank and round queries for a tracker over HTTP.
//
// Workers poll the endpoint to learn their rank in the current round and
// to detect membership changes.
type Server struct {
	tracker *Tracker
	httpSrv *http.Server
}

// Creates a rendezvous server for the given tracker, listening on addr.
func NewServer(tracker *Tracker, addr string) *Server {
	if addr == "" {
		addr = fmt.Sprintf(":%d", DefaultPort)
	}

	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /round", s.handleRound)
	mux.HandleFunc("GET /rank/{host}", s.handleRank)
	mux.HandleFunc("GET /host/{rank}", s.handleHost)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return fmt.Errorf("rendezvous listen on %s: %w", s.httpSrv.Addr, err)
	}

	slog.Info("rendezvous endpoint listening", "addr", listener.Addr().String())

	errc := make(chan error, 1)
	go func() {
		errc <- s.httpSrv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, RoundResponse{
		Round: s.tracker.Round(),
		Size:  s.tracker.Size(),
		Hosts: s.tracker.Hosts(),
	})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	host := r.PathValue("host")

	writeJSON(w, RankResponse{
		Host:  host,
		Rank:  s.tracker.Rank(host),
		Round: s.tracker.Round(),
		Size:  s.tracker.Size(),
	})
}

func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	rank, err := strconv.Atoi(r.PathValue("rank"))
	if err != nil {
		http.Error(w, "rank must be an integer", http.StatusBadRequest)
		return
	}

	host := s.tracker.Host(rank)
	if host == "" {
		http.Error(w, "rank not assigned in the current round", http.StatusNotFound)
		return
	}

	writeJSON(w, RankResponse{
		Host:  host,
		Rank:  rank,
		Round: s.tracker.Round(),
		Size:  s.tracker.Size(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode rendezvous response failed", "error", err)
	}
}
