// Package tls builds the client-side TLS configuration for the transport.
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/config"
)

// ClientConfig returns the TLS configuration for outbound requests.
// Certificate verification is always on; the minimum version comes from cfg
// and is never below TLS 1.2.
func ClientConfig(cfg *config.TransportConfig) (*tls.Config, error) {
	roots, err := RootCAPool(cfg.TLSRootCAFile, cfg.TLSRootCADir)
	if err != nil {
		return nil, err
	}

	minVersion := cfg.TLSVersion()
	if minVersion < tls.VersionTLS12 {
		minVersion = tls.VersionTLS12
	}

	return &tls.Config{
		MinVersion: minVersion,
		RootCAs:    roots,
	}, nil
}

// RootCAPool merges the system pool with certificates from an optional file
// and an optional directory of .pem/.crt files.
// Returns (nil, nil) when both are empty so the system defaults apply.
func RootCAPool(caFile, caDir string) (*x509.CertPool, error) {
	if caFile == "" && caDir == "" {
		return nil, nil
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	if caFile != "" {
		if err := appendPEMFile(pool, caFile); err != nil {
			return nil, fmt.Errorf("transport.tls_root_ca_file: %w", err)
		}
	}

	if caDir != "" {
		entries, err := os.ReadDir(caDir)
		if err != nil {
			return nil, fmt.Errorf("transport.tls_root_ca_dir: %w", err)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			name := strings.ToLower(e.Name())
			if !strings.HasSuffix(name, ".pem") && !strings.HasSuffix(name, ".crt") {
				continue
			}
			if err := appendPEMFile(pool, filepath.Join(caDir, e.Name())); err != nil {
				return nil, fmt.Errorf("transport.tls_root_ca_dir: %w", err)
			}
		}
	}

	return pool, nil
}

func appendPEMFile(pool *x509.CertPool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	if !pool.AppendCertsFromPEM(data) {
		return fmt.Errorf("%q: no valid PEM certificates found", path)
	}
	return nil
}
