// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package server exposes a service.Service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/intervals/interval"
	"github.com/grailbio/intervals/service"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

// Opts configures the HTTP transport.  Timeouts and size limits live here
// rather than in the service, which has no notion of either.
type Opts struct {
	// Addr is the TCP address to listen on.
	Addr string
	// AllowedOrigins lists the origins allowed to call /merge from a browser.
	AllowedOrigins []string
	// ReadTimeout and WriteTimeout bound a single request.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ShutdownTimeout bounds how long in-flight requests may run after the
	// server context is cancelled.
	ShutdownTimeout time.Duration
	// MaxRequestBytes caps the size of a request body.
	MaxRequestBytes int64
}

// DefaultOpts matches the settings the web frontend is deployed with.
var DefaultOpts = Opts{
	Addr:            ":8085",
	AllowedOrigins:  []string{"http://localhost:3010", "http://127.0.0.1:3010"},
	ReadTimeout:     30 * time.Second,
	WriteTimeout:    30 * time.Second,
	ShutdownTimeout: 10 * time.Second,
	MaxRequestBytes: 64 << 20,
}

// Server serves POST /merge and GET /healthz.
type Server struct {
	svc  *service.Service
	opts Opts
}

// New returns a Server backed by svc.
func New(svc *service.Service, opts Opts) *Server {
	return &Server{svc: svc, opts: opts}
}

// Handler returns the server's routes wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(MergePath, s.handleMerge)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	c := cors.New(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}

// ListenAndServe listens on Opts.Addr and serves until ctx is cancelled.  See
// Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return errors.Wrapf(err, "server: listen on %v", s.opts.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to Opts.ShutdownTimeout to
// finish.  It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("server: listening on %v", ln.Addr())
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			return errors.Wrap(err, "server: serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		log.Printf("server: shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "server: shutdown")
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, KindBadRequest,
			fmt.Sprintf("method %s not allowed, use POST", r.Method))
		return
	}
	var req MergeRequest
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, KindBadRequest,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, KindBadRequest, "could not decode request: "+err.Error())
		return
	}

	resp, err := s.svc.Merge(service.Request{Input: req.Input, Intervals: req.Intervals})
	if err != nil {
		kind := interval.KindOf(err)
		message := err.Error()
		if e, ok := err.(*interval.Error); ok {
			message = e.Message
		}
		writeError(w, StatusForKind(kind), kind.String(), message)
		return
	}
	out := MergeResponse{
		Result:      resp.Result,
		ElapsedTime: resp.Elapsed.String(),
	}
	if s.svc.Opts().MeasureMemory {
		out.MemoryUsage = fmt.Sprintf("%d bytes", resp.MemoryUsage)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	log.Debug.Printf("server: %d %s: %s", status, kind, message)
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Kind: kind, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error.Printf("server: write response: %v", err)
	}
}
