package logging

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the caller-facing configuration surface of the engine.
// Zero-valued sizes select compiled-in defaults; Level and AsyncPolicy
// are textual and parsed during Initialize.
type Config struct {
	// Level is the global minimum severity: trace, debug, info, warn,
	// error, fatal or none. Empty selects info.
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal none disabled"`

	// Format is the output pattern. Empty selects DefaultFormat.
	// Unknown %-tokens are accepted and copied through verbatim.
	Format string `yaml:"format"`

	// Async enables the bounded producer/consumer pipeline.
	Async bool `yaml:"async"`

	// AsyncPolicy governs a full queue: drop_oldest, drop_newest or
	// block. Empty selects drop_oldest.
	AsyncPolicy string `yaml:"async_policy" validate:"omitempty,oneof=drop_oldest drop_newest block"`

	// AsyncQueueSize is the queue capacity; 0 selects DefaultQueueSize.
	AsyncQueueSize int `yaml:"async_queue_size" validate:"gte=0,lte=65536"`

	// BufferSize bounds a rendered line; 0 selects DefaultBufferSize.
	BufferSize int `yaml:"buffer_size" validate:"gte=0,lte=1048576"`

	// MaxMessageLen bounds the user message before pattern expansion;
	// 0 selects DefaultMaxMessageLen.
	MaxMessageLen int `yaml:"max_message_len" validate:"gte=0,lte=1048576"`

	// Color enables the %c/%C ANSI color tokens.
	Color bool `yaml:"color"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      DefaultFormat,
		AsyncPolicy: "drop_oldest",
	}
}

// LoadConfig decodes a YAML document over the defaults and validates it.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing logging config: %v", ErrInvalidParameter, err)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
