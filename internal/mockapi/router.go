package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const defaultPerPage = 6

type server struct {
	store  *Store
	logger zerolog.Logger
}

// NewRouter mounts the collection under prefix (e.g. "/api").
// Unknown ids on PUT and DELETE still succeed, like the public service.
func NewRouter(prefix string, store *Store, logger zerolog.Logger) *mux.Router {
	s := &server{store: store, logger: logger}

	r := mux.NewRouter()
	sub := r.PathPrefix(prefix).Subrouter()
	sub.HandleFunc("/users", s.list).Methods(http.MethodGet)
	sub.HandleFunc("/users", s.create).Methods(http.MethodPost)
	sub.HandleFunc("/users/{id:[0-9]+}", s.get).Methods(http.MethodGet)
	sub.HandleFunc("/users/{id:[0-9]+}", s.update).Methods(http.MethodPut)
	sub.HandleFunc("/users/{id:[0-9]+}", s.remove).Methods(http.MethodDelete)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK\n"))
	}).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Msg("mock request")
		next.ServeHTTP(w, r)
	})
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", defaultPerPage)
	users, total := s.store.Page(page, perPage)
	writeJSON(w, http.StatusOK, map[string]any{
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": PageCount(total, perPage),
		"data":        users,
	})
}

func (s *server) get(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.Get(pathID(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": u})
}

func (s *server) create(w http.ResponseWriter, r *http.Request) {
	var in User
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	u := s.store.Create(in)
	writeJSON(w, http.StatusCreated, struct {
		User
		CreatedAt time.Time `json:"createdAt"`
	}{u, time.Now().UTC()})
}

func (s *server) update(w http.ResponseWriter, r *http.Request) {
	var in User
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	u, _ := s.store.Update(pathID(r), in)
	writeJSON(w, http.StatusOK, struct {
		User
		UpdatedAt time.Time `json:"updatedAt"`
	}{u, time.Now().UTC()})
}

func (s *server) remove(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(pathID(r))
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
