package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"

	"github.com/ethereum-optimism/infra/op-cukereport/metrics"
)

const shutdownTimeout = 5 * time.Second

// ReportServer serves a generated report directory (report, summary.json and
// screenshots) together with a health endpoint. Report metrics are exported with
// --metrics-textfile at generation time.
type ReportServer struct {
	dir     string
	addr    string
	log     log.Logger
	server  *http.Server
	lis     net.Listener
	stopped atomic.Bool
}

// NewReportServer creates a server for dir listening on addr
func NewReportServer(dir, addr string, logger log.Logger) *ReportServer {
	if logger == nil {
		logger = log.New()
	}
	return &ReportServer{
		dir:  dir,
		addr: addr,
		log:  logger.New("component", "report-server"),
	}
}

// Handler returns the HTTP handler of the server
func (s *ReportServer) Handler() http.Handler {
	hdlr := http.NewServeMux()
	hdlr.HandleFunc("/healthz", s.handleHealthz)
	hdlr.Handle("/", http.FileServer(http.Dir(s.dir)))
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	return c.Handler(hdlr)
}

// Start binds the listener and serves in the background.
// Start implements the cliapp.Lifecycle interface.
func (s *ReportServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.lis = lis
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("error serving report", "err", err)
			metrics.RecordErrorDetails("error serving report", err)
		}
	}()
	s.log.Info("serving report", "dir", s.dir, "addr", lis.Addr().String())
	return nil
}

// Addr returns the bound address once started
func (s *ReportServer) Addr() string {
	if s.lis == nil {
		return s.addr
	}
	return s.lis.Addr().String()
}

// Stop shuts the server down.
// Stop implements the cliapp.Lifecycle interface.
func (s *ReportServer) Stop(ctx context.Context) error {
	if s.stopped.Swap(true) || s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.log.Info("report server stopped")
	return err
}

// Stopped implements the cliapp.Lifecycle interface.
func (s *ReportServer) Stopped() bool {
	return s.stopped.Load()
}

func (s *ReportServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("Received health check request", "path", r.URL.Path)
	w.Write([]byte("OK")) //nolint:errcheck
}
