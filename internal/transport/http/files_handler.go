package http

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// FilesHandler serves the output directory read-only, so the map front-end
// can fetch the CSV, JSON and GeoJSON files directly
type FilesHandler struct {
	root   string
	logger *slog.Logger
}

// NewFilesHandler serves files below root
func NewFilesHandler(root string, logger *slog.Logger) *FilesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilesHandler{
		root:   root,
		logger: logger.With(slog.String("handler", "files")),
	}
}

// Routes returns a router meant to be mounted at prefix
func (h *FilesHandler) Routes(prefix string) chi.Router {
	r := chi.NewRouter()
	fileServer := http.StripPrefix(prefix, http.FileServer(noListing{http.Dir(h.root)}))

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, prefix)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".geojson":
			w.Header().Set("Content-Type", "application/geo+json")
		case ".csv":
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		}
		w.Header().Set("Cache-Control", "no-cache")
		h.logger.DebugContext(r.Context(), "serving output file", slog.String("file", name))
		fileServer.ServeHTTP(w, r)
	})
	r.Head("/*", func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	})

	return r
}

// noListing hides directory indexes
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
