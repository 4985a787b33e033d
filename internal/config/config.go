// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level configuration for the service.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Backend       BackendConfig       `koanf:"backend"`
	OpenSearch    OpenSearchConfig    `koanf:"opensearch"`
	Elasticsearch ElasticsearchConfig `koanf:"elasticsearch"`
	NATS          NATSConfig          `koanf:"nats"`
	Auth          AuthConfig          `koanf:"auth"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	Mode string `koanf:"mode"` // "debug" or "release"
}

// BackendConfig selects the search backend runs execute against.
type BackendConfig struct {
	// Type is one of "opensearch", "elasticsearch", "mock"
	Type string `koanf:"type"`
}

// OpenSearchConfig holds the OpenSearch backend settings.
type OpenSearchConfig struct {
	URL   string `koanf:"url"`
	Index string `koanf:"index"`
}

// ElasticsearchConfig holds the Elasticsearch backend settings.
type ElasticsearchConfig struct {
	URL      string `koanf:"url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Index    string `koanf:"index"`
}

// NATSConfig holds the NATS build-responder settings.
type NATSConfig struct {
	Enabled       bool          `koanf:"enabled"`
	URL           string        `koanf:"url"`
	Timeout       time.Duration `koanf:"timeout"`
	MaxReconnect  int           `koanf:"max_reconnect"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// AuthConfig holds the JWT authentication settings.
type AuthConfig struct {
	JWKSURL            string `koanf:"jwks_url"`
	Audience           string `koanf:"audience"`
	MockLocalPrincipal string `koanf:"mock_local_principal"`
}

// Addr returns the address the HTTP server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads the configuration from the given file path and environment variables.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"server.host":         "0.0.0.0",
		"server.port":         8080,
		"server.mode":         "release",
		"backend.type":        "mock",
		"opensearch.url":      "",
		"opensearch.index":    "aggregations",
		"elasticsearch.url":   "",
		"elasticsearch.index": "aggregations",
		"nats.enabled":        false,
		"nats.url":            "nats://localhost:4222",
		"nats.timeout":        "5s",
		"nats.max_reconnect":  5,
		"nats.reconnect_wait": "2s",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// 2. Load from file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// 3. Load from Environment Variables
	// AGGS_SERVER__PORT=9090 overrides server.port
	if err := k.Load(env.Provider("AGGS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "AGGS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
