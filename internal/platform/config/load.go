package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir sets the directory holding base.yaml and the profile files.
// Defaults to "configs" relative to the working directory.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// layer is one configuration source. Later layers override earlier ones.
type layer struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// Load builds the configuration for profile from, lowest precedence first:
//
//  0. built-in defaults
//  1. {configDir}/base.yaml
//  2. {configDir}/{profile}.yaml
//  3. APP_* environment variables
//
// Environment variables are matched against the keys already loaded, so
// underscores inside a field name survive:
//
//	APP_SERVER_READ_TIMEOUT       -> server.read_timeout
//	APP_DATABASE_MAX_OPEN_CONNS   -> database.max_open_conns
//	APP_RATE_LIMIT_BURST          -> rate_limit.burst
//	APP_REDIS_IDEMPOTENCY_TTL     -> redis.idempotency_ttl
//
// The result is validated before it is returned.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	basePath := filepath.Join(o.configDir, "base.yaml")
	profilePath := filepath.Join(o.configDir, profile+".yaml")

	k := koanf.New(".")
	for _, l := range []layer{
		{name: "defaults", provider: confmap.Provider(defaults(), ".")},
		{name: "base config " + basePath, provider: file.Provider(basePath), parser: yaml.Parser()},
		{name: "profile config " + profilePath, provider: file.Provider(profilePath), parser: yaml.Parser()},
	} {
		if err := k.Load(l.provider, l.parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", l.name, err)
		}
	}

	// The env layer needs the key set from the layers above.
	if err := k.Load(envProvider(k.Keys()), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// envProvider maps APP_* variables onto known keys. Unknown variables fall
// back to replacing every underscore with a dot.
func envProvider(knownKeys []string) *env.Env {
	byEnvName := make(map[string]string, len(knownKeys))
	for _, key := range knownKeys {
		byEnvName[strings.ReplaceAll(key, ".", "_")] = key
	}

	return env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(name, value string) (string, any) {
			name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
			if key, ok := byEnvName[name]; ok {
				return key, value
			}
			return strings.ReplaceAll(name, "_", "."), value
		},
	})
}

// validateProfile rejects names that could escape the config directory.
func validateProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}
