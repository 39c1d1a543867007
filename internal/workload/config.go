package workload

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/randomizedcoder/go-mpsc/internal/mpsc"
)

// VariantChan runs the workload over a buffered Go channel as a baseline.
const VariantChan = "chan"

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("workload: invalid config")

// Config describes one producer/consumer run.
type Config struct {
	// Variant is an mpsc.Variant name or VariantChan.
	Variant string `mapstructure:"variant"`

	// Producers is the number of sender clones. Each clone sends
	// Messages values and is then closed.
	Producers int `mapstructure:"producers"`
	Messages  int `mapstructure:"messages"`

	// Workers bounds the goroutines running producers at once.
	// Zero means four per GOMAXPROCS.
	Workers int `mapstructure:"workers"`

	// ChanSize is the buffer of the VariantChan baseline.
	ChanSize int `mapstructure:"chan-size"`

	// Progress is the consumer's reporting interval. Zero disables it.
	Progress time.Duration `mapstructure:"progress"`
}

// DefaultConfig returns the one-value-per-producer stress shape.
func DefaultConfig() Config {
	return Config{
		Variant:   string(mpsc.VariantWeak),
		Producers: 1_000_000,
		Messages:  1,
		ChanSize:  1024,
		Progress:  time.Second,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Variant != VariantChan {
		if _, err := mpsc.ParseVariant(c.Variant); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Producers < 1 {
		return fmt.Errorf("%w: producers must be at least 1, got %d", ErrInvalidConfig, c.Producers)
	}
	if c.Messages < 1 {
		return fmt.Errorf("%w: messages must be at least 1, got %d", ErrInvalidConfig, c.Messages)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Variant == VariantChan && c.ChanSize < 0 {
		return fmt.Errorf("%w: chan-size must not be negative, got %d", ErrInvalidConfig, c.ChanSize)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0) * 4
}
