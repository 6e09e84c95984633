// Package api serves projections and shortfall solves over HTTP with
// fasthttp.
package api

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/internal/logging"
	"github.com/webxl/inflation-planner/internal/metrics"
	"github.com/webxl/inflation-planner/internal/output"
	"github.com/webxl/inflation-planner/internal/shortfall"
)

// DefaultSolveTimeout bounds a single solve request when Options leaves it
// unset.
const DefaultSolveTimeout = 10 * time.Second

// RequestIDHeader carries the per-request ID on every response.
const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// AdjustRequest is the body of POST /v1/adjust.
type AdjustRequest struct {
	Target     string                      `json:"target"`
	Parameters domain.ProjectionParameters `json:"parameters"`
}

// Options wires the server's dependencies. Nil fields get defaults.
type Options struct {
	Engine       *calculation.CalculationEngine
	Solver       *shortfall.Solver
	Metrics      *metrics.Recorder
	Logger       *zap.SugaredLogger
	SolveTimeout time.Duration
}

// Server routes API requests.
type Server struct {
	engine       *calculation.CalculationEngine
	solver       *shortfall.Solver
	metrics      *metrics.Recorder
	log          *zap.SugaredLogger
	solveTimeout time.Duration
	serveMetrics fasthttp.RequestHandler
	baseCtx      context.Context
}

// NewServer builds a server from opts.
func NewServer(opts Options) *Server {
	if opts.Engine == nil {
		opts.Engine = calculation.NewCalculationEngine()
	}
	if opts.Solver == nil {
		opts.Solver = shortfall.NewDefaultSolver(opts.Engine)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.SolveTimeout <= 0 {
		opts.SolveTimeout = DefaultSolveTimeout
	}
	return &Server{
		engine:       opts.Engine,
		solver:       opts.Solver,
		metrics:      opts.Metrics,
		log:          opts.Logger,
		solveTimeout: opts.SolveTimeout,
		serveMetrics: fasthttpadaptor.NewFastHTTPHandler(opts.Metrics.Handler()),
		baseCtx:      context.Background(),
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. In-flight solves are cancelled with ctx.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.baseCtx = ctx
	srv := &fasthttp.Server{
		Handler:      s.Handler,
		Name:         "inflation-planner",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.solveTimeout + 30*time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Infof("listening on %s", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			return err
		}
		return <-errc
	}
}

// Handler is the root fasthttp handler.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	requestID := uuid.NewString()
	ctx.Response.Header.Set(RequestIDHeader, requestID)

	path := string(ctx.Path())
	route := s.dispatch(ctx, path)

	status := ctx.Response.StatusCode()
	elapsed := time.Since(start)
	s.metrics.ObserveRequest(route, status, elapsed)
	s.log.Infow("request",
		"request_id", requestID,
		"method", string(ctx.Method()),
		"path", path,
		"status", status,
		"duration", elapsed,
	)
}

// dispatch runs the matching route and returns its label for metrics.
func (s *Server) dispatch(ctx *fasthttp.RequestCtx, path string) string {
	switch path {
	case "/v1/project":
		if s.allow(ctx, fasthttp.MethodPost) {
			s.handleProject(ctx)
		}
	case "/v1/adjust":
		if s.allow(ctx, fasthttp.MethodPost) {
			s.handleAdjust(ctx)
		}
	case "/v1/adjust/all":
		if s.allow(ctx, fasthttp.MethodPost) {
			s.handleAdjustAll(ctx)
		}
	case "/healthz":
		if s.allow(ctx, fasthttp.MethodGet) {
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		}
	case "/metrics":
		if s.allow(ctx, fasthttp.MethodGet) {
			s.serveMetrics(ctx)
		}
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found: "+path)
		return "unmatched"
	}
	return path
}

func (s *Server) allow(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set("Allow", method)
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	return false
}

func (s *Server) handleProject(ctx *fasthttp.RequestCtx) {
	var p domain.ProjectionParameters
	if err := json.Unmarshal(ctx.PostBody(), &p); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	result, err := s.engine.Project(p)
	s.metrics.ObserveProjection(time.Since(start), err)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	report, err := output.NewReport("", p, result, string(ctx.QueryArgs().Peek("sample")))
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, report.Document())
}

func (s *Server) handleAdjust(ctx *fasthttp.RequestCtx) {
	var req AdjustRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	target, err := domain.ParseAdjustmentTarget(req.Target)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	solveCtx, cancel := context.WithTimeout(s.baseCtx, s.solveTimeout)
	defer cancel()

	start := time.Now()
	adj, err := s.solver.Solve(solveCtx, target, req.Parameters)
	s.metrics.ObserveSolve(target, adj, time.Since(start), err)
	if err != nil {
		writeSolveError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, adj)
}

func (s *Server) handleAdjustAll(ctx *fasthttp.RequestCtx) {
	var p domain.ProjectionParameters
	if err := json.Unmarshal(ctx.PostBody(), &p); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	solveCtx, cancel := context.WithTimeout(s.baseCtx, s.solveTimeout)
	defer cancel()

	result, err := s.solver.SolveAll(solveCtx, p)
	if err != nil {
		writeSolveError(ctx, err)
		return
	}
	for _, r := range result.Results {
		s.metrics.ObserveSolve(r.Adjustment.Target, r.Adjustment, 0, nil)
	}
	writeJSON(ctx, fasthttp.StatusOK, result)
}

func writeSolveError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(ctx, fasthttp.StatusServiceUnavailable, "solve timed out")
	case errors.Is(err, domain.ErrInvalidParameters), errors.Is(err, domain.ErrUnknownTarget):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	default:
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = fasthttp.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{Status: status, Message: err.Error()})
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, ErrorResponse{Status: status, Message: message})
}
