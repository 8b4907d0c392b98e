package db

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ValkeyOptions describes how to reach the key-value store.
type ValkeyOptions struct {
	// Addr is the host:port of the server.
	Addr string
	// Username is the ACL user; Valkey's built-in user is "default".
	Username string
	// Password is the ACL password, empty when auth is disabled.
	Password string
	// TLS enables TLS on the connection when non-nil.
	TLS *tls.Config
}

// InitValkey opens a client for the given options and verifies the
// connection with a PING.
func InitValkey(ctx context.Context, opts ValkeyOptions) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("open valkey: empty address")
	}

	client := redis.NewClient(&redis.Options{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		TLSConfig: opts.TLS,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	return client, nil
}
