package server

import (
	"net/http"

	"github.com/niprobin/curated-digging/internal/utils"
	"github.com/niprobin/curated-digging/pkg/archive"
	"github.com/niprobin/curated-digging/pkg/edgecache"
)

type Server struct {
	Tracks   *edgecache.Cache
	Albums   *edgecache.Cache
	DB       *archive.DB
	Username string
	Password string
}

func New(tracks, albums *edgecache.Cache, db *archive.DB, user, pass string) *Server {
	return &Server{
		Tracks:   tracks,
		Albums:   albums,
		DB:       db,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	if s.Tracks != nil {
		mux.Handle("GET /tracks", s.Tracks)
	}
	if s.Albums != nil {
		mux.Handle("GET /albums", s.Albums)
	}
	if s.DB != nil {
		mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))
	}

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
