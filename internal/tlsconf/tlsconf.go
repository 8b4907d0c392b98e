// Package tlsconf builds TLS configurations from PEM files for the HTTPS
// listener and for the connection to the key-value store.
package tlsconf

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// LoadCAPool reads a PEM bundle and returns a pool containing its certificates.
func LoadCAPool(caPath string) (*x509.CertPool, error) {
	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("read ca bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caPEM); !ok {
		return nil, errors.New("invalid CA bundle PEM")
	}
	return pool, nil
}

// Server loads a certificate/key pair for the HTTPS listener.
func Server(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("load server key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// Client returns a TLS configuration for dialing serverName. When caPath is
// empty the system roots are used.
func Client(serverName, caPath string) (*tls.Config, error) {
	cfg := &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}
	if caPath == "" {
		return cfg, nil
	}
	pool, err := LoadCAPool(caPath)
	if err != nil {
		return nil, err
	}
	cfg.RootCAs = pool
	return cfg, nil
}
