// Package config loads engine configuration from file, environment, and
// flags via viper: one struct per concern, a single Load entry point,
// environment variables prefixed and auto-mapped over dotted keys.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Chunking bounds the content-defined chunker.
type Chunking struct {
	MinChunkSize uint32 `mapstructure:"min_chunk_size"`
	AvgChunkSize uint32 `mapstructure:"avg_chunk_size"`
	MaxChunkSize uint32 `mapstructure:"max_chunk_size"`
}

// Packing bounds the block packer.
type Packing struct {
	MaxBlockSize      uint32 `mapstructure:"max_block_size"`
	MaxChunksPerBlock uint32 `mapstructure:"max_chunks_per_block"`
}

// Concurrency bounds parallel fan-out.
type Concurrency struct {
	MaxWorkers int `mapstructure:"max_workers"`
}

// Redis configures the optional cross-process block-write lock.
type Redis struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
}

// Addr formats Host/Port for redis.Options.Addr.
func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Catalog configures the embedded named-version catalog.
type Catalog struct {
	Path string `mapstructure:"path"`
}

// Logging configures the zerolog writer.
type Logging struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Config is the engine's full configuration tree.
type Config struct {
	Chunking    Chunking    `mapstructure:"chunking"`
	Packing     Packing     `mapstructure:"packing"`
	Concurrency Concurrency `mapstructure:"concurrency"`
	Redis       Redis       `mapstructure:"redis"`
	Catalog     Catalog     `mapstructure:"catalog"`
	Logging     Logging     `mapstructure:"logging"`
}

// Defaults returns reasonable chunker/packer parameters for a single-node
// deployment.
func Defaults() Config {
	return Config{
		Chunking: Chunking{
			MinChunkSize: 2 << 10,   // 2 KiB
			AvgChunkSize: 8 << 10,   // 8 KiB
			MaxChunkSize: 64 << 10,  // 64 KiB
		},
		Packing: Packing{
			MaxBlockSize:      8 << 20, // 8 MiB
			MaxChunksPerBlock: 1024,
		},
		Concurrency: Concurrency{
			MaxWorkers: 8,
		},
		Redis: Redis{
			Enabled:     false,
			Host:        "localhost",
			Port:        6379,
			DB:          0,
			PoolSize:    10,
			DialTimeout: 5 * time.Second,
			LockTTL:     30 * time.Second,
		},
		Catalog: Catalog{
			Path: "contentstore.catalog.db",
		},
		Logging: Logging{
			Level:  "info",
			Pretty: false,
		},
	}
}

// Load reads configuration from configPath (if non-empty), environment
// variables prefixed CONTENTSTORE_ (nested keys use "_" in place of "."),
// and finally the compiled-in Defaults for anything unset.
func Load(configPath string) (Config, error) {
	v := viper.New()

	def := Defaults()
	v.SetDefault("chunking.min_chunk_size", def.Chunking.MinChunkSize)
	v.SetDefault("chunking.avg_chunk_size", def.Chunking.AvgChunkSize)
	v.SetDefault("chunking.max_chunk_size", def.Chunking.MaxChunkSize)
	v.SetDefault("packing.max_block_size", def.Packing.MaxBlockSize)
	v.SetDefault("packing.max_chunks_per_block", def.Packing.MaxChunksPerBlock)
	v.SetDefault("concurrency.max_workers", def.Concurrency.MaxWorkers)
	v.SetDefault("redis.enabled", def.Redis.Enabled)
	v.SetDefault("redis.host", def.Redis.Host)
	v.SetDefault("redis.port", def.Redis.Port)
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("redis.pool_size", def.Redis.PoolSize)
	v.SetDefault("redis.dial_timeout", def.Redis.DialTimeout)
	v.SetDefault("redis.lock_ttl", def.Redis.LockTTL)
	v.SetDefault("catalog.path", def.Catalog.Path)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.pretty", def.Logging.Pretty)

	v.SetEnvPrefix("contentstore")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %q: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
