package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeKeyPair writes a self-signed certificate for cn and returns the file paths.
func writeKeyPair(t *testing.T, dir, cn string) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600))
	return certFile, keyFile
}

func commonName(t *testing.T, cert *tls.Certificate) string {
	t.Helper()
	require.NotNil(t, cert)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed.Subject.CommonName
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewCertLoader(t *testing.T) {
	certFile, keyFile := writeKeyPair(t, t.TempDir(), "first")

	loader, err := NewCertLoader(certFile, keyFile, discardLogger())
	require.NoError(t, err)

	cert, err := loader.GetCertificate(nil)
	require.NoError(t, err)
	assert.Equal(t, "first", commonName(t, cert))

	cfg := loader.TLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.NotNil(t, cfg.GetCertificate)
}

func TestNewCertLoader_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewCertLoader(filepath.Join(dir, "cert.pem"), filepath.Join(dir, "key.pem"), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load key pair")
}

func TestCertLoader_ReloadsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeKeyPair(t, dir, "first")

	loader, err := NewCertLoader(certFile, keyFile, discardLogger())
	require.NoError(t, err)
	loader.interval = 0

	writeKeyPair(t, dir, "second")
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(certFile, future, future))
	require.NoError(t, os.Chtimes(keyFile, future, future))

	cert, err := loader.GetCertificate(nil)
	require.NoError(t, err)
	assert.Equal(t, "second", commonName(t, cert))
}

func TestCertLoader_KeepsCertificateOnError(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeKeyPair(t, dir, "first")

	loader, err := NewCertLoader(certFile, keyFile, discardLogger())
	require.NoError(t, err)
	loader.interval = 0

	require.NoError(t, os.Remove(keyFile))
	cert, err := loader.GetCertificate(nil)
	require.NoError(t, err)
	assert.Equal(t, "first", commonName(t, cert))

	require.NoError(t, os.WriteFile(keyFile, []byte("garbage"), 0600))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(keyFile, future, future))
	cert, err = loader.GetCertificate(nil)
	require.NoError(t, err)
	assert.Equal(t, "first", commonName(t, cert))
}

func TestCertLoader_ChecksAtMostOncePerInterval(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeKeyPair(t, dir, "first")

	loader, err := NewCertLoader(certFile, keyFile, discardLogger())
	require.NoError(t, err)

	writeKeyPair(t, dir, "second")
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(certFile, future, future))
	require.NoError(t, os.Chtimes(keyFile, future, future))

	cert, err := loader.GetCertificate(nil)
	require.NoError(t, err)
	assert.Equal(t, "first", commonName(t, cert), "files are not re-read within the interval")
}
