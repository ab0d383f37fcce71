package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hubmap/pkg/config"
	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/network"
	"github.com/matzehuels/hubmap/pkg/surface"
	"github.com/matzehuels/hubmap/pkg/view"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second

	// Per-request map limits; a PNG canvas costs 4 bytes per pixel.
	maxMapSide   = 8192
	maxMapPixels = 4096 * 4096
)

type serveOpts struct {
	mapFlags
	addr string
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [places.toml]",
		Short: "Serve live map previews over HTTP",
		Long: `Serve answers GET /map.svg, /map.png and /map.geojson with a freshly
mounted map. Every request draws a new random set of secondary routes unless
?seed= is given. Also served: /topology.dot, /topology.svg, /places.json and
/healthz.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.apply(cmd.Flags(), &c.Config); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				c.Config.Serve.Addr = opts.addr
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runServe(cmd.Context(), file)
		},
	}

	opts.register(cmd.Flags(), config.Default())
	cmd.Flags().StringVar(&opts.addr, "addr", config.Default().Serve.Addr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, file string) error {
	logger := loggerFromContext(ctx)

	store, err := c.openCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := c.loadRegistry(ctx, file, store)
	if err != nil {
		return err
	}
	layers, err := c.tileLayers(ctx, store, c.Config.Tiles.Layers)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.Config.Serve.Addr,
		Handler:           newMapServer(c.Config, reg, layers, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Serving %d places on %s", reg.Len(), StyleHighlight.Render("http://"+c.Config.Serve.Addr))
	printNextStep("Open", "http://"+c.Config.Serve.Addr+"/map.svg")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down")
	return srv.Shutdown(shutdownCtx)
}

// mapServer renders maps per request. Each request gets its own backend,
// view and surface.
type mapServer struct {
	cfg    config.Config
	reg    *geo.Registry
	layers []surface.TileLayer
	logger *log.Logger
}

func newMapServer(cfg config.Config, reg *geo.Registry, layers []surface.TileLayer, logger *log.Logger) *mapServer {
	return &mapServer{cfg: cfg, reg: reg, layers: layers, logger: logger}
}

func (s *mapServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "places": s.reg.Len()})
	})
	r.Get("/places.json", s.handlePlaces)
	r.Get("/map.{format}", s.handleMap)
	r.Get("/topology.{format}", s.handleTopology)
	return r
}

func (s *mapServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *mapServer) handleMap(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if !validFormats[format] {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be svg, png or geojson)", format))
		return
	}
	cfg, seed, err := s.requestConfig(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var opts []view.Option
	if seed != nil {
		opts = append(opts, view.WithSeed(*seed))
	}

	res, err := renderMap(cfg, s.logger, s.reg, s.layers, format, opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	stats := network.Stats(res.Edges)
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Hubmap-Seed", strconv.FormatUint(res.Seed, 10))
	w.Header().Set("X-Hubmap-Edges", strconv.Itoa(stats.Total()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *mapServer) handleTopology(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if format != topologyDOT && format != topologySVG {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be dot or svg)", format))
		return
	}
	cfg, seed, err := s.requestConfig(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rng, used := network.NewSeededRandom()
	if seed != nil {
		rng, used = network.NewRandom(*seed), *seed
	}
	pts := s.reg.Points()
	edges, err := network.Build(pts, cfg.NetworkOptions(), rng)
	if err != nil {
		writeError(w, err)
		return
	}

	data := []byte(network.ToDOT(pts, edges))
	contentType := "text/vnd.graphviz; charset=utf-8"
	if format == topologySVG {
		if data, err = network.RenderSVG(r.Context(), string(data)); err != nil {
			writeError(w, err)
			return
		}
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Hubmap-Seed", strconv.FormatUint(used, 10))
	_, _ = w.Write(data)
}

type placeJSON struct {
	Name        string  `json:"name"`
	Label       string  `json:"label"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Color       string  `json:"color"`
	Highlighted bool    `json:"highlighted"`
	Hub         bool    `json:"hub"`
}

func (s *mapServer) handlePlaces(w http.ResponseWriter, r *http.Request) {
	pts := s.reg.Points()
	out := make([]placeJSON, len(pts))
	for i, p := range pts {
		out[i] = placeJSON{
			Name:        p.Name,
			Label:       p.DisplayLabel(),
			Lat:         p.Lat,
			Lng:         p.Lng,
			Color:       p.Color.String(),
			Highlighted: p.Highlighted,
			Hub:         i == s.cfg.Render.Hub,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// requestConfig applies query overrides (probability, projection, width,
// height) to a copy of the server config. seed is nil unless ?seed= is set.
func (s *mapServer) requestConfig(r *http.Request) (config.Config, *uint64, error) {
	cfg := s.cfg
	q := r.URL.Query()
	var seed *uint64

	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, nil, errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", v)
		}
		seed = &n
	}
	if v := q.Get("probability"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, nil, errors.New(errors.ErrCodeInvalidInput, "invalid probability %q", v)
		}
		cfg.Render.Probability = p
	}
	if v := q.Get("projection"); v != "" {
		cfg.Render.Projection = v
	}
	for key, dst := range map[string]*int{"width": &cfg.Render.Width, "height": &cfg.Render.Height} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n > maxMapSide {
				return cfg, nil, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", key, v)
			}
			*dst = n
		}
	}
	if w, h := cfg.Render.Width, cfg.Render.Height; w > 0 && h > 0 && w*h > maxMapPixels {
		return cfg, nil, errors.New(errors.ErrCodeInvalidInput, "map size %dx%d exceeds %d pixels", w, h, maxMapPixels)
	}
	return cfg, seed, cfg.Validate()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidProjection,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidContainer, errors.ErrCodeInvalidPoint:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case "":
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{"error": string(code), "message": errors.UserMessage(err)})
}
