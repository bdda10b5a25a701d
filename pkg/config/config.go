// Package config loads arcdiff's configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/arcdiff/config.toml (or
// the platform equivalent, see [DefaultPath]). Every key is optional;
// missing keys keep the values of [Default]. Command-line flags override
// the file.
//
//	[server]
//	addr = ":8080"
//
//	[annotator]
//	url = "http://localhost:5000"
//	timeout = "30s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[diff]
//	mode = "auto"
//	formats = ["json", "svg"]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/arcdiff/pkg/cache"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
	"github.com/matzehuels/arcdiff/pkg/pipeline"
	"github.com/matzehuels/arcdiff/pkg/store"
)

// FileName is the name of the configuration file inside its directory.
const FileName = "config.toml"

// Duration is a time.Duration written as a string ("30s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the whole configuration file.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Annotator AnnotatorConfig `toml:"annotator"`
	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
	Diff      DiffConfig      `toml:"diff"`
}

// ServerConfig configures `arcdiff serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr" validate:"required"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes" validate:"min=1024"`
	Metrics      bool     `toml:"metrics"`
}

// AnnotatorConfig locates the annotation service. An empty URL disables
// sentence input.
type AnnotatorConfig struct {
	URL              string   `toml:"url" validate:"omitempty,http_url"`
	Timeout          Duration `toml:"timeout"`
	Retries          int      `toml:"retries" validate:"min=1,max=10"`
	CacheTTL         Duration `toml:"cache_ttl"`
	EnhanceUD        bool     `toml:"enhance_ud"`
	EnhancedPlusPlus bool     `toml:"enhanced_plus_plus"`
	EnhancedExtra    bool     `toml:"enhanced_extra"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend  string   `toml:"backend" validate:"oneof=none file memory redis"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// StoreConfig selects the comparison history store.
type StoreConfig struct {
	Backend    string `toml:"backend" validate:"oneof=memory mongo"`
	MaxRecords int    `toml:"max_records" validate:"min=0"`
	MongoURI   string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DiffConfig holds comparison defaults.
type DiffConfig struct {
	Mode     string   `toml:"mode" validate:"oneof=auto index text"`
	GraphA   string   `toml:"graph_a" validate:"required"`
	GraphB   string   `toml:"graph_b" validate:"required"`
	Formats  []string `toml:"formats" validate:"min=1,dive,oneof=json odin dot svg png pdf"`
	Detailed bool     `toml:"detailed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxBodyBytes: 4 << 20,
			Metrics:      true,
		},
		Annotator: AnnotatorConfig{
			Timeout:  Duration{30 * time.Second},
			Retries:  3,
			CacheTTL: Duration{7 * 24 * time.Hour},
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			Prefix:  cache.DefaultRedisPrefix,
			TTL:     Duration{pipeline.DefaultTTL},
		},
		Store: StoreConfig{
			Backend:    store.BackendMemory,
			MaxRecords: store.DefaultMemoryRecords,
		},
		Diff: DiffConfig{
			Mode:    "auto",
			GraphA:  pipeline.DefaultGraphA,
			GraphB:  pipeline.DefaultGraphB,
			Formats: []string{pipeline.FormatJSON},
		},
	}
}

// DefaultPath returns the configuration file path
// ($XDG_CONFIG_HOME/arcdiff/config.toml or the platform equivalent).
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "arcdiff", FileName), nil
}

// Load reads the file at path over the defaults. With an empty path the
// default location is used, and a missing file there is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
// Unknown keys are rejected so that typos do not go unnoticed.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section against its constraints.
func (c Config) Validate() error {
	return apperrors.ValidateConfig(c)
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns c as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	_ = c.Write(&buf)
	return buf.String()
}

// CacheOptions converts the cache section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
		Prefix:   c.Cache.Prefix,
	}
}

// StoreOptions converts the store section for [store.Open].
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.Store.Backend,
		MaxRecords: c.Store.MaxRecords,
		MongoURI:   c.Store.MongoURI,
		Database:   c.Store.Database,
		Collection: c.Store.Collection,
	}
}

// PipelineOptions returns the comparison defaults as pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		GraphA:           c.Diff.GraphA,
		GraphB:           c.Diff.GraphB,
		Mode:             c.Diff.Mode,
		Formats:          append([]string(nil), c.Diff.Formats...),
		Detailed:         c.Diff.Detailed,
		EnhanceUD:        c.Annotator.EnhanceUD,
		EnhancedPlusPlus: c.Annotator.EnhancedPlusPlus,
		EnhancedExtra:    c.Annotator.EnhancedExtra,
	}
}
