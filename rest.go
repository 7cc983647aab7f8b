package sematree

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
)

/*
Server exposes a built Searcher over HTTP. The index is read-only, so every
endpoint is safe under concurrent requests; there are no write endpoints.

Endpoints:

	POST /api/v1/search   {"text": ..., "vector": [...], "k": 5, "exact": false}
	GET  /api/v1/stats
	GET  /api/v1/session  (websocket; one query per text frame)
*/
type Server struct {
	searcher *Searcher
	secret   []byte
}

// NewServer wraps searcher. A non-empty authSecret enables HS256 bearer-token
// authentication on every endpoint.
func NewServer(searcher *Searcher, authSecret string) *Server {
	s := &Server{searcher: searcher}
	if authSecret != "" {
		s.secret = []byte(authSecret)
	}
	return s
}

// Handler returns the server's routing table, wrapped in auth when a secret
// is configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/session", s.handleSession)
	if s.secret == nil {
		return mux
	}
	return s.requireAuth(mux)
}

// RunServer starts an HTTP server for searcher on the configured host and
// blocks until it fails.
func RunServer(searcher *Searcher) error {
	cfg := GlobalConfig()
	server := NewServer(searcher, cfg.AuthSecret)
	log.Printf("serving %d items on %s", searcher.Len(), cfg.SematreeHost)
	return http.ListenAndServe(cfg.SematreeHost, server.Handler())
}

type searchRequest struct {
	Text   string    `json:"text"`
	Vector []float64 `json:"vector"`
	K      int       `json:"k"`
	Exact  bool      `json:"exact"`
}

type searchResponse struct {
	Results   []Result `json:"results"`
	ElapsedUS int64    `json:"elapsed_us"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("search: bad request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.search(req)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) search(req searchRequest) (searchResponse, error) {
	query := req.Vector
	if len(query) == 0 {
		query = s.searcher.Embed(req.Text)
	}
	if req.K == 0 {
		req.K = 5
	}

	var idx Index = s.searcher.Tree()
	if req.Exact {
		idx = s.searcher.Linear()
	}

	start := time.Now()
	results, err := idx.KNearest(query, req.K)
	if err != nil {
		return searchResponse{}, err
	}
	return searchResponse{
		Results:   results,
		ElapsedUS: time.Since(start).Microseconds(),
	}, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tree := s.searcher.Tree()
	writeJSON(w, map[string]interface{}{
		"document_count":  tree.Len(),
		"dimension_count": tree.Dim(),
		"leaf_size":       tree.LeafSize(),
		"node_count":      tree.NodeCount(),
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleSession runs an interactive search session over a websocket: each
// text frame is a searchRequest, each reply a searchResponse or an error
// object.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("session: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req searchRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("session: read: %v", err)
			}
			return
		}

		resp, err := s.search(req)
		if err != nil {
			if werr := conn.WriteJSON(map[string]string{"error": err.Error()}); werr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeQueryError maps the engine's typed failures onto HTTP status codes.
func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidK), errors.Is(err, ErrDimensionMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrEmptyIndex):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GenerateToken mints a bearer token accepted by a server configured with
// the same secret. Tokens expire after 24 hours.
func GenerateToken(secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub": "sematree",
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func validateToken(tokenString string, secret []byte) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		if err := validateToken(tokenString, s.secret); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
