package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "CHARTKIT_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.transport", typ: kString, env: "CHARTKIT_SERVER_TRANSPORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Transport = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Transport },
	},
	{
		key: "charts.dir", typ: kString, env: "CHARTKIT_CHARTS_DIR",
		apply:   func(cfg *Config, v any) { cfg.Charts.Dir = v.(string) },
		extract: func(cfg Config) any { return cfg.Charts.Dir },
	},
	{
		key: "charts.base_url", typ: kString, env: "CHARTKIT_CHARTS_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Charts.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Charts.BaseURL },
	},
	{
		key: "render.base_url", typ: kString, env: "CHARTKIT_RENDER_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Render.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Render.BaseURL },
	},
	{
		key: "render.timeout", typ: kString, env: "CHARTKIT_RENDER_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Render.Timeout = v.(string) },
		extract: func(cfg Config) any { return cfg.Render.Timeout },
	},
	{
		key: "storage.data_dir", typ: kString, env: "CHARTKIT_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "minio.endpoint", typ: kString, env: "CHARTKIT_MINIO_ENDPOINT",
		apply:   func(cfg *Config, v any) { cfg.Minio.Endpoint = v.(string) },
		extract: func(cfg Config) any { return cfg.Minio.Endpoint },
	},
	{
		key: "minio.access_key", typ: kString, env: "CHARTKIT_MINIO_ACCESS_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Minio.AccessKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Minio.AccessKey },
	},
	{
		key: "minio.secret_key", typ: kString, env: "CHARTKIT_MINIO_SECRET_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Minio.SecretKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Minio.SecretKey },
	},
	{
		key: "minio.bucket", typ: kString, env: "CHARTKIT_MINIO_BUCKET",
		apply:   func(cfg *Config, v any) { cfg.Minio.Bucket = v.(string) },
		extract: func(cfg Config) any { return cfg.Minio.Bucket },
	},
	{
		key: "minio.region", typ: kString, env: "CHARTKIT_MINIO_REGION",
		apply:   func(cfg *Config, v any) { cfg.Minio.Region = v.(string) },
		extract: func(cfg Config) any { return cfg.Minio.Region },
	},
	{
		key: "minio.use_ssl", typ: kBool, env: "CHARTKIT_MINIO_USE_SSL",
		apply:   func(cfg *Config, v any) { cfg.Minio.UseSSL = v.(bool) },
		extract: func(cfg Config) any { return cfg.Minio.UseSSL },
	},
	{
		key: "minio.public_base_url", typ: kString, env: "CHARTKIT_MINIO_PUBLIC_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Minio.PublicBaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Minio.PublicBaseURL },
	},
	{
		key: "log.level", typ: kString, env: "CHARTKIT_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kBool:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if bv, err := strconv.ParseBool(v); err == nil {
					s.apply(cfg, bv)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				s.apply(cfg, b)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
