package workload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randomizedcoder/go-mpsc/internal/workload"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*workload.Config)
		wantErr bool
	}{
		{"default", func(*workload.Config) {}, false},
		{"counted", func(c *workload.Config) { c.Variant = "counted" }, false},
		{"chan", func(c *workload.Config) { c.Variant = workload.VariantChan }, false},
		{"unbuffered chan", func(c *workload.Config) { c.Variant = workload.VariantChan; c.ChanSize = 0 }, false},
		{"unknown variant", func(c *workload.Config) { c.Variant = "ring" }, true},
		{"zero producers", func(c *workload.Config) { c.Producers = 0 }, true},
		{"zero messages", func(c *workload.Config) { c.Messages = 0 }, true},
		{"negative workers", func(c *workload.Config) { c.Workers = -1 }, true},
		{"negative chan size", func(c *workload.Config) { c.Variant = workload.VariantChan; c.ChanSize = -1 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := workload.DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, workload.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
