// Package metrics exposes Prometheus counters for portal polling.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const namespace = "time_recorder"

var (
	// StatusScans counts scanned pages by resulting attendance code.
	StatusScans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_scans_total",
		Help:      "Portal pages scanned into an attendance status.",
	}, []string{"code"})

	// CacheLookups counts status cache reads by result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_cache_lookups_total",
		Help:      "Status cache reads.",
	}, []string{"result"})

	// PortalRequests counts portal HTTP requests by method and result.
	PortalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "portal_requests_total",
		Help:      "Requests sent to the timekeeping portal.",
	}, []string{"method", "result"})

	// LoginRetries counts re-login attempts after a session timeout.
	LoginRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "portal_login_retries_total",
		Help:      "Login retries triggered by a session timeout page.",
	})

	// AttendanceCode is the last observed attendance code (0 when unusable).
	AttendanceCode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "attendance_code",
		Help:      "Current attendance state: 0 unknown, 1 before, 2 on the job, 3 after.",
	})
)

// Server serves /metrics until Shutdown is called.
type Server struct {
	srv    *http.Server
	logger *logrus.Entry
}

func NewServer(addr string, logger *logrus.Entry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start listens in the background.
func (s *Server) Start() {
	go func() {
		s.logger.WithField("addr", s.srv.Addr).Info("Metrics endpoint listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Metrics endpoint stopped")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
