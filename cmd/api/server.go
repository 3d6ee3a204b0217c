package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"superlists/internal/shared/config"
	"superlists/internal/shared/middleware"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Handler      http.Handler
	Addr         string
	TLSEnabled   bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
	AllowedHosts []string
}

// StartServers creates and starts the main server and optional redirect server.
// Serve errors are sent on the returned channel.
func StartServers(scfg ServerConfig, logger *log.Logger) (srv, redirectSrv *http.Server, errc <-chan error) {
	srv = &http.Server{
		Addr:         scfg.Addr,
		Handler:      scfg.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errs := make(chan error, 2)

	if scfg.TLSEnabled && scfg.RedirectHTTP {
		redirectSrv = createRedirectServer(scfg.AllowedHosts)
		go func() {
			logger.Info("HTTP redirect server starting", "addr", redirectSrv.Addr)
			if err := redirectSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP redirect server error", "err", err)
			}
		}()
	}

	go func() {
		var err error
		if scfg.TLSEnabled {
			logger.Info("HTTPS server starting", "addr", scfg.Addr)
			err = srv.ListenAndServeTLS(scfg.CertPath, scfg.KeyPath)
		} else {
			logger.Info("HTTP server starting", "addr", scfg.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	return srv, redirectSrv, errs
}

// GracefulShutdown stops both servers, waiting at most timeout for in-flight requests.
func GracefulShutdown(srv, redirectSrv *http.Server, timeout time.Duration, logger *log.Logger) {
	logger.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if redirectSrv != nil {
		if err := redirectSrv.Shutdown(ctx); err != nil {
			logger.Error("error shutting down HTTP redirect server", "err", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error shutting down main server", "err", err)
	}

	logger.Info("server stopped")
}

// createRedirectServer creates an HTTP server that redirects all requests to HTTPS.
func createRedirectServer(allowedHosts []string) *http.Server {
	return &http.Server{
		Addr:         ":80",
		Handler:      redirectHandler(allowedHosts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func redirectHandler(allowedHosts []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Header.Get("X-Forwarded-Host")
		if host == "" {
			host = r.Host
		}

		if !middleware.IsHostAllowed(host, allowedHosts) {
			http.Error(w, "Invalid host", http.StatusBadRequest)
			return
		}

		canonicalHost := middleware.StripPort(host)
		if strings.Contains(canonicalHost, ":") {
			canonicalHost = "[" + canonicalHost + "]"
		}

		httpsURL := "https://" + canonicalHost + r.RequestURI
		http.Redirect(w, r, httpsURL, http.StatusMovedPermanently)
	})
}

// NewServerConfigFromConfig creates ServerConfig from application config.
func NewServerConfigFromConfig(handler http.Handler, cfg *config.Config) ServerConfig {
	return ServerConfig{
		Handler:      handler,
		Addr:         cfg.Server.Addr(),
		TLSEnabled:   cfg.TLS.Enabled,
		CertPath:     cfg.TLS.CertPath,
		KeyPath:      cfg.TLS.KeyPath,
		RedirectHTTP: cfg.TLS.RedirectHTTP,
		AllowedHosts: cfg.Server.AllowedHosts,
	}
}
