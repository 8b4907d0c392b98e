// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional JSON file and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultPort is used when neither SERVER_ADDRESS nor PORT is set.
const DefaultPort = "3001"

// Options holds the configuration values for the application.
// Precedence, lowest first: flag defaults, config file, environment, explicit flags.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"address" env:"SERVER_ADDRESS"`
	// Port is used to build Addr when Addr is empty.
	Port string `json:"port" env:"PORT"`

	// ValkeyServer is the host:port of the key-value store.
	ValkeyServer string `json:"valkey_server" env:"VALKEY_SERVER"`
	// ValkeyUsername is the ACL user.
	ValkeyUsername string `json:"valkey_username" env:"VALKEY_USERNAME"`
	// ValkeyPassword is the ACL password.
	ValkeyPassword string `json:"-" env:"VALKEY_PASSWORD"`
	// ValkeyTLS enables TLS to the store.
	ValkeyTLS bool `json:"valkey_tls" env:"VALKEY_TLS"`
	// ValkeyCAFile optionally pins the CA bundle for store TLS.
	ValkeyCAFile string `json:"valkey_ca_file" env:"VALKEY_CA_FILE"`

	// ResetSecretKey names the Secrets Manager secret holding adminPassword.
	ResetSecretKey string `json:"reset_secret_key" env:"RESET_SECRETKEY"`
	// AWSRegion is the region of the Secrets Manager endpoint.
	AWSRegion string `json:"aws_region" env:"AWS_REGION"`

	// CORSOrigin is the allowed browser origin, "*" for any.
	CORSOrigin string `json:"cors_origin" env:"CORS_ORIGIN"`
	// StaticDir is served at "/"; empty disables static files.
	StaticDir string `json:"static_dir" env:"STATIC_DIR"`
	// ProfanityExtraWords extends the built-in name check wordlist.
	ProfanityExtraWords []string `json:"profanity_extra_words" env:"PROFANITY_EXTRA_WORDS" envSeparator:","`
	// LogLevel is the zap level name.
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `json:"tls_cert_file" env:"TLS_CERT_FILE"`
	TLSKeyFile  string `json:"tls_key_file" env:"TLS_KEY_FILE"`

	// StoreProbeInterval is the period of the store liveness probe; zero disables it.
	StoreProbeInterval time.Duration `json:"-" env:"STORE_PROBE_INTERVAL"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// defaults returns the options used when nothing else is configured.
func defaults() Options {
	return Options{
		ValkeyServer:       "127.0.0.1:6379",
		ValkeyUsername:     "default",
		ResetSecretKey:     "leaderboard-reset",
		AWSRegion:          "eu-west-1",
		CORSOrigin:         "*",
		StaticDir:          "public",
		LogLevel:           "info",
		StoreProbeInterval: 30 * time.Second,
		Config:             "config.json",
	}
}

// ParseArgs builds Options from fs/args, the config file and the environment.
func ParseArgs(fs *flag.FlagSet, args []string) (*Options, error) {
	options := defaults()

	fs.StringVar(&options.Addr, "a", options.Addr, "run on ip:port server")
	fs.StringVar(&options.ValkeyServer, "valkey", options.ValkeyServer, "valkey host:port")
	fs.StringVar(&options.StaticDir, "static", options.StaticDir, "static files directory")
	fs.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	fs.StringVar(&options.TLSCertFile, "tls-cert", options.TLSCertFile, "HTTPS certificate file")
	fs.StringVar(&options.TLSKeyFile, "tls-key", options.TLSKeyFile, "HTTPS private key file")
	fs.StringVar(&options.Config, "config", options.Config, "path to config file")
	fs.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	fromFlags := options

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" && !explicit["config"] && !explicit["c"] {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, &options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := env.Parse(&options); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	applyExplicit(&options, fromFlags, explicit)

	if options.Addr == "" {
		port := options.Port
		if port == "" {
			port = DefaultPort
		}
		options.Addr = ":" + port
	}
	if (options.TLSCertFile == "") != (options.TLSKeyFile == "") {
		return nil, fmt.Errorf("both TLS certificate and key must be set")
	}

	return &options, nil
}

// applyExplicit restores values of flags given on the command line, which
// win over the file and the environment.
func applyExplicit(dst *Options, flags Options, explicit map[string]bool) {
	if explicit["a"] {
		dst.Addr = flags.Addr
	}
	if explicit["valkey"] {
		dst.ValkeyServer = flags.ValkeyServer
	}
	if explicit["static"] {
		dst.StaticDir = flags.StaticDir
	}
	if explicit["l"] {
		dst.LogLevel = flags.LogLevel
	}
	if explicit["tls-cert"] {
		dst.TLSCertFile = flags.TLSCertFile
	}
	if explicit["tls-key"] {
		dst.TLSKeyFile = flags.TLSKeyFile
	}
}

// Parse parses the process command line and environment. It exits the
// process on invalid configuration.
func Parse() *Options {
	options, err := ParseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("error while parsing configuration: %v", err)
	}
	return options
}

// ValkeyHost returns the host part of ValkeyServer, used as the TLS server name.
func (o *Options) ValkeyHost() string {
	host, _, err := net.SplitHostPort(o.ValkeyServer)
	if err != nil {
		return o.ValkeyServer
	}
	return host
}
