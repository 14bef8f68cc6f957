// Package config loads the intcodec CLI configuration from a YAML file,
// INTCODEC_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	intcodec "github.com/Akron/intcodec-go"
	"github.com/Akron/intcodec-go/compress"
)

// Config is the top-level configuration struct for intcodec.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Codec   CodecConfig   `mapstructure:"codec"`
	Bench   BenchConfig   `mapstructure:"bench"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CodecConfig holds the codec construction knobs.
type CodecConfig struct {
	Name        string `mapstructure:"name"`
	SliceSize   int    `mapstructure:"slice_size"`
	BlockSize   int    `mapstructure:"block_size"`
	Sorted      bool   `mapstructure:"sorted"`
	Compression string `mapstructure:"compression"`
}

// BenchConfig holds benchmark settings.
type BenchConfig struct {
	Codecs []string `mapstructure:"codecs"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Logging formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Default configuration values.
const (
	DefaultCodecName     = intcodec.NameSortedFOR2
	DefaultSliceSize     = intcodec.DefaultSliceSize
	DefaultBlockSize     = intcodec.DefaultBlockSize
	DefaultSorted        = true
	DefaultCompression   = "none"
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = FormatText
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidSliceSize indicates the slice size is outside the permutation table range.
	ErrInvalidSliceSize = errors.New("codec.slice_size out of range")
	// ErrInvalidBlockSize indicates the block size is not positive.
	ErrInvalidBlockSize = errors.New("codec.block_size must be positive")
	// ErrInvalidCompression indicates an unknown compression name.
	ErrInvalidCompression = errors.New("codec.compression is not supported")
	// ErrUnknownCodec indicates a codec name that is not registered.
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrInvalidLogLevel indicates an unparsable logging level.
	ErrInvalidLogLevel = errors.New("logging.level is invalid")
	// ErrInvalidLogFormat indicates a logging format other than text or json.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Codec.SliceSize < intcodec.MinSliceSize || c.Codec.SliceSize > intcodec.MaxSliceSize {
		return fmt.Errorf("%w: %d (must be within [%d, %d])",
			ErrInvalidSliceSize, c.Codec.SliceSize, intcodec.MinSliceSize, intcodec.MaxSliceSize)
	}
	if c.Codec.BlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.Codec.BlockSize)
	}
	if _, err := compress.ParseType(c.Codec.Compression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCompression, err)
	}
	if err := checkCodecName("codec.name", c.Codec.Name); err != nil {
		return err
	}
	for _, name := range c.Bench.Codecs {
		if err := checkCodecName("bench.codecs", name); err != nil {
			return err
		}
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	return nil
}

func checkCodecName(key, name string) error {
	if !slices.Contains(intcodec.Names(), name) {
		return fmt.Errorf("%w in %s: %q (known: %v)", ErrUnknownCodec, key, name, intcodec.Names())
	}
	return nil
}

// Options converts the codec section into intcodec.Options.
func (c CodecConfig) Options() (intcodec.Options, error) {
	ct, err := compress.ParseType(c.Compression)
	if err != nil {
		return intcodec.Options{}, fmt.Errorf("%w: %w", ErrInvalidCompression, err)
	}
	return intcodec.Options{
		SliceSize:   c.SliceSize,
		BlockSize:   c.BlockSize,
		Unsorted:    !c.Sorted,
		Compression: ct,
	}, nil
}

// SlogLevel parses the configured level (debug, info, warn, error).
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}
	return level, nil
}
