package tls_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	stdtls "crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/config"
	tlspkg "github.com/MahdiBaghbani/feedclient-go/internal/platform/http/tls"
)

func mustCreateCAPEM(t *testing.T) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Feed Test CA"},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func TestClientConfig_MinVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    uint16
	}{
		{"default 1.2", "1.2", stdtls.VersionTLS12},
		{"raised to 1.3", "1.3", stdtls.VersionTLS13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := tlspkg.ClientConfig(&config.TransportConfig{TLSMinVersion: tt.version})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.MinVersion != tt.want {
				t.Errorf("MinVersion = %x, want %x", tc.MinVersion, tt.want)
			}
			if tc.InsecureSkipVerify {
				t.Error("verification must stay on")
			}
			if tc.RootCAs != nil {
				t.Error("expected system roots when no CA configured")
			}
		})
	}
}

func TestRootCAPool_FileAndDir(t *testing.T) {
	tmp := t.TempDir()
	caFile := filepath.Join(tmp, "ca.pem")
	if err := os.WriteFile(caFile, mustCreateCAPEM(t), 0644); err != nil {
		t.Fatal(err)
	}
	caDir := filepath.Join(tmp, "cas")
	if err := os.Mkdir(caDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(caDir, "extra.crt"), mustCreateCAPEM(t), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(caDir, "README.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	pool, err := tlspkg.RootCAPool(caFile, caDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool == nil {
		t.Fatal("expected non-nil pool")
	}
}

func TestRootCAPool_Errors(t *testing.T) {
	tmp := t.TempDir()
	bad := filepath.Join(tmp, "bad.pem")
	if err := os.WriteFile(bad, []byte("not a cert"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := tlspkg.RootCAPool(bad, ""); err == nil {
		t.Error("expected error for invalid PEM file")
	}
	if _, err := tlspkg.RootCAPool(filepath.Join(tmp, "missing.pem"), ""); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := tlspkg.RootCAPool("", filepath.Join(tmp, "missing-dir")); err == nil {
		t.Error("expected error for missing dir")
	}
}
