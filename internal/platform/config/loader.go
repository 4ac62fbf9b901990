package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FACEID_"

// legacyEnv maps the variable names of earlier deployments to config keys.
var legacyEnv = map[string]string{
	"PORT":            "port",
	"ISSUER_BASE_URL": "issuer.base_url",
	"ISSUER_ID":       "issuer.id",
	"ETHPROVIDER":     "ledger.rpc_url",
	"PRIVATE_KEY":     "ledger.private_key",
	"ORACLE_ADDRESS":  "ledger.oracle_address",
	"CONTEST_ADDRESS": "ledger.contest_address",
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file named by FACEID_CONFIG
//  3. legacy variables (ISSUER_BASE_URL, ETHPROVIDER, ...)
//  4. FACEID_* variables; a double underscore nests, FACEID_ISSUER__BASE_URL -> issuer.base_url
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	legacy := env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	})
	if err := k.Load(legacy, nil); err != nil {
		return nil, fmt.Errorf("load legacy env: %w", err)
	}
	if port := k.String("port"); port != "" {
		if err := k.Set("addr", ":"+port); err != nil {
			return nil, fmt.Errorf("apply PORT: %w", err)
		}
	}

	prefixed := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
