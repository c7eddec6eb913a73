package transport

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roelstierum/plcsim-go/internal/obslog"
	"github.com/roelstierum/plcsim-go/internal/varspace"
)

// Router is the minimal HTTP/WebSocket front door over the Space,
// grounded on the teacher's api/routes_registration.go route table and
// api/server.go-style Server receiver methods.
type Router struct {
	mux     *mux.Router
	space   *varspace.Space
	hub     *hub
	limiter *ipLimiter
	log     *obslog.Logger
}

// Config configures the Router's rate limiter and metrics registry.
type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RateLimitTTL   time.Duration

	// Registry is the Prometheus registry /metrics serves. A nil
	// Registry falls back to prometheus.DefaultRegisterer, which does
	// not carry the Cell's Collectors unless the caller also registered
	// them there — pass the same *prometheus.Registry given to
	// metrics.New to actually expose them.
	Registry *prometheus.Registry
}

// New builds a Router over space. The caller is responsible for
// starting the returned Router's Subscription drain via Serve.
func New(space *varspace.Space, cfg Config) *Router {
	rt := &Router{
		mux:   mux.NewRouter(),
		space: space,
		hub:   newHub(),
		log:   obslog.New("transport"),
	}
	if cfg.RateLimitRPS > 0 {
		rt.limiter = newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitTTL)
	}
	rt.registerRoutes(cfg.Registry)
	return rt
}

func (rt *Router) registerRoutes(reg *prometheus.Registry) {
	rt.mux.HandleFunc("/healthz", rt.handleHealthz).Methods("GET")
	rt.mux.HandleFunc("/vars", rt.handleListVars).Methods("GET")
	rt.mux.Handle("/vars/{path:.*}", rt.rateLimitMiddleware(http.HandlerFunc(rt.handleWriteVar))).Methods("POST")
	rt.mux.HandleFunc("/vars/stream", rt.handleStream).Methods("GET")

	metricsHandler := promhttp.Handler()
	if reg != nil {
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	rt.mux.Handle("/metrics", metricsHandler).Methods("GET")
}

// Serve drains the Space's change subscription into the WebSocket hub
// until stop is closed.
func (rt *Router) Serve(stop <-chan struct{}) {
	sub := rt.space.Subscribe()
	go func() {
		<-stop
		sub.Close()
	}()
	rt.hub.run(sub)
}

// Handler returns the http.Handler to mount on an *http.Server.
func (rt *Router) Handler() http.Handler { return rt.mux }

func (rt *Router) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (rt *Router) handleListVars(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	paths := rt.space.ListPaths(prefix)
	out := make(map[string]any, len(paths))
	for _, p := range paths {
		v, _ := rt.space.Read(p)
		out[p] = wireValue(v)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// writeVarRequest is the POST /vars/{path} body: a single typed value.
type writeVarRequest struct {
	Kind  string `json:"kind"`
	Int   int64  `json:"int,omitempty"`
	Bool  bool   `json:"bool,omitempty"`
	Text  string `json:"string,omitempty"`
}

// handleWriteVar accepts writes only under EcoToPlc, except for the
// single documented xTrayInElevator override path of spec §4.7/§9,
// which the supervisor's reconcileTrayOverride step watches for.
func (rt *Router) handleWriteVar(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]
	if !strings.HasPrefix(path, "EcoToPlc/") && !strings.HasSuffix(path, "/xTrayInElevator") {
		http.Error(w, `{"error":"write not permitted on this path"}`, http.StatusForbidden)
		return
	}

	var body writeVarRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}

	var v varspace.Value
	switch body.Kind {
	case "bool":
		v = varspace.Bool(body.Bool)
	case "string":
		v = varspace.String(body.Text)
	default:
		v = varspace.Int64(body.Int)
	}

	rt.space.Write(path, v)
	w.WriteHeader(http.StatusNoContent)
}
