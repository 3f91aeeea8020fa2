package server

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const certCheckInterval = time.Minute

// CertLoader serves a TLS certificate from disk and reloads it when the
// certificate or key file changes.
type CertLoader struct {
	certFile string
	keyFile  string
	logger   *slog.Logger
	interval time.Duration

	mu        sync.RWMutex
	cert      *tls.Certificate
	loadedAt  time.Time
	lastCheck time.Time
}

// NewCertLoader creates a CertLoader and loads the key pair once.
func NewCertLoader(certFile, keyFile string, logger *slog.Logger) (*CertLoader, error) {
	loader := &CertLoader{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   logger,
		interval: certCheckInterval,
	}

	if err := loader.reload(); err != nil {
		return nil, err
	}
	loader.lastCheck = time.Now()

	return loader, nil
}

// TLSConfig returns a tls.Config that always presents the current certificate.
func (l *CertLoader) TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: l.GetCertificate,
	}
}

// GetCertificate is a callback for tls.Config.GetCertificate.
// The files are checked for changes at most once per interval; on any error
// the previous certificate keeps being served.
func (l *CertLoader) GetCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	l.mu.RLock()
	if time.Since(l.lastCheck) < l.interval {
		defer l.mu.RUnlock()
		return l.cert, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCheck) < l.interval {
		return l.cert, nil
	}
	l.lastCheck = time.Now()

	certStat, err := os.Stat(l.certFile)
	if err != nil {
		l.logger.Error("failed to stat cert file", "error", err)
		return l.cert, nil
	}
	keyStat, err := os.Stat(l.keyFile)
	if err != nil {
		l.logger.Error("failed to stat key file", "error", err)
		return l.cert, nil
	}

	if certStat.ModTime().After(l.loadedAt) || keyStat.ModTime().After(l.loadedAt) {
		if err := l.reload(); err != nil {
			l.logger.Error("failed to reload certificate", "error", err)
		}
	}

	return l.cert, nil
}

// reload must be called with l.mu held or before l is shared.
func (l *CertLoader) reload() error {
	cert, err := tls.LoadX509KeyPair(l.certFile, l.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load key pair: %w", err)
	}

	l.cert = &cert
	l.loadedAt = time.Now()
	l.logger.Info("loaded tls certificate", "cert", l.certFile, "key", l.keyFile)
	return nil
}
