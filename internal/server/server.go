// Package server provides the HTTP API for taskboard.
//
// This is the request/response boundary of the task service: a small JSON
// REST surface over /tasks. Validation and error classification live in the
// tasks package; this layer only decodes bodies and maps outcomes to codes.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/Gentleman-Programming/taskboard/internal/tasks"
)

const maxBodyBytes = 1 << 20

var version = "0.1.0"

type Server struct {
	svc    *tasks.Service
	mux    *http.ServeMux
	host   string
	port   int
	listen func(network, address string) (net.Listener, error)
	serve  func(net.Listener, http.Handler) error
}

func New(svc *tasks.Service, port int) *Server {
	srv := &Server{svc: svc, host: "127.0.0.1", port: port, listen: net.Listen, serve: http.Serve}
	srv.mux = http.NewServeMux()
	srv.routes()
	return srv
}

// WithHost overrides the bind address (default 127.0.0.1).
func (s *Server) WithHost(host string) *Server {
	if host != "" {
		s.host = host
	}
	return s
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

func (s *Server) Start() error {
	addr := s.Addr()
	listenFn := s.listen
	if listenFn == nil {
		listenFn = net.Listen
	}
	serveFn := s.serve
	if serveFn == nil {
		serveFn = http.Serve
	}

	ln, err := listenFn("tcp", addr)
	if err != nil {
		return fmt.Errorf("taskboard server: listen %s: %w", addr, err)
	}
	log.Printf("[taskboard] HTTP server listening on %s", addr)
	return serveFn(ln, s.Handler())
}

func (s *Server) Handler() http.Handler {
	return withRequestID(withAccessLog(withCORS(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /tasks", s.handleListTasks)
	s.mux.HandleFunc("POST /tasks", s.handleCreateTask)
	s.mux.HandleFunc("GET /tasks/{id}", s.handleGetTask)
	s.mux.HandleFunc("PUT /tasks/{id}", s.handleUpdateTask)
	s.mux.HandleFunc("PATCH /tasks/{id}", s.handlePatchTask)
	s.mux.HandleFunc("DELETE /tasks/{id}", s.handleDeleteTask)
}

// ─── Handlers ────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "taskboard",
		"version": version,
	})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.List()
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := s.svc.Get(id)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, t)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body tasks.CreateInput
	if !decodeBody(w, r, &body) {
		return
	}

	t, err := s.svc.Create(body)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body tasks.UpdateInput
	if !decodeBody(w, r, &body) {
		return
	}

	t, err := s.svc.Update(id, body)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, t)
}

func (s *Server) handlePatchTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body tasks.PatchInput
	if !decodeBody(w, r, &body) {
		return
	}

	t, err := s.svc.SetCompleted(id, body)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	removed, err := s.svc.Delete(id)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Task deleted",
		"id":      removed,
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, map[string]string{"error": msg})
}

func serviceError(w http.ResponseWriter, err error) {
	switch {
	case tasks.IsValidation(err):
		jsonError(w, http.StatusBadRequest, err.Error())
	case tasks.IsNotFound(err):
		jsonError(w, http.StatusNotFound, err.Error())
	default:
		jsonError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses {id}. An id that is not a number cannot match a row, so it
// answers like a missing task.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		serviceError(w, &tasks.NotFoundError{})
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		jsonError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}
