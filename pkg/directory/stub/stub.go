// Package stub serves the directory API from an in-memory fixture, for
// the simulator and end-to-end tests.
package stub

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Hotspot is one fixture entry.
type Hotspot struct {
	Maker string `yaml:"maker"`
	Payer string `yaml:"payer,omitempty"`

	// Owner answers ownership lookups of any device type.
	Owner string `yaml:"owner,omitempty"`

	// Owners overrides Owner per device type.
	Owners map[string]string `yaml:"owners,omitempty"`
}

// Fixture is the directory content.
type Fixture struct {
	MinimumFirmware string             `yaml:"minimum_firmware"`
	Hotspots        map[string]Hotspot `yaml:"hotspots"`
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parse fixture %s", path)
	}
	if f.Hotspots == nil {
		f.Hotspots = map[string]Hotspot{}
	}
	return &f, nil
}

// Server serves a Fixture. It is safe for concurrent use.
type Server struct {
	mu      sync.RWMutex
	fixture Fixture
	logger  zerolog.Logger
}

// NewServer creates a server over a copy of f.
func NewServer(f *Fixture, logger zerolog.Logger) *Server {
	s := &Server{logger: logger}
	if f != nil {
		s.fixture.MinimumFirmware = f.MinimumFirmware
		s.fixture.Hotspots = make(map[string]Hotspot, len(f.Hotspots))
		for k, v := range f.Hotspots {
			s.fixture.Hotspots[k] = v
		}
	} else {
		s.fixture.Hotspots = map[string]Hotspot{}
	}
	return s
}

// SetMinimumFirmware changes the advertised minimum firmware.
func (s *Server) SetMinimumFirmware(v string) {
	s.mu.Lock()
	s.fixture.MinimumFirmware = v
	s.mu.Unlock()
}

// SetHotspot adds or replaces a hotspot entry.
func (s *Server) SetHotspot(address string, h Hotspot) {
	s.mu.Lock()
	s.fixture.Hotspots[address] = h
	s.mu.Unlock()
}

// Router returns the API routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/v2/firmware", s.firmware).Methods(http.MethodGet)
	r.HandleFunc("/v2/hotspots/{address}", s.onboarding).Methods(http.MethodGet)
	r.HandleFunc("/v2/hotspots/{address}/owner", s.owner).Methods(http.MethodGet)
	return r
}

// Handler returns the routes with access logging and panic recovery.
func (s *Server) Handler() http.Handler {
	logged := handlers.LoggingHandler(s.logger, s.Router())
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(logged)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) firmware(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	v := s.fixture.MinimumFirmware
	s.mu.RUnlock()

	if v == "" {
		writeJSON(w, http.StatusOK, map[string]any{"data": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"version": v}})
}

func (s *Server) onboarding(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(mux.Vars(r)["address"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	data := map[string]any{"maker": map[string]string{"address": h.Maker}}
	if h.Payer != "" {
		data["payer"] = h.Payer
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) owner(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(mux.Vars(r)["address"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	owner := h.Owner
	if o, ok := h.Owners[r.URL.Query().Get("type")]; ok {
		owner = o
	}
	if owner == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not registered"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"owner": owner}})
}

func (s *Server) lookup(address string) (Hotspot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.fixture.Hotspots[address]
	return h, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves Handler on addr until ctx ends, then shuts down
// gracefully. ready, if not nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", addr)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("directory stub listening")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
