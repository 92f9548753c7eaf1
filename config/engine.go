package config

import (
	"fmt"
	"time"

	"github.com/skillsenselab/flowkit/logger"
)

// Failure policy names accepted in configuration.
const (
	PolicyFailFast   = "fail_fast"
	PolicyBestEffort = "best_effort"
)

// EngineConfig contains the execution engine's tunables.
type EngineConfig struct {
	// MaxConcurrent limits in-flight vertex executions per run (0 = unbounded).
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// DefaultVertexTimeout applies to vertices without their own timeout
	// (0 = no deadline).
	DefaultVertexTimeout time.Duration `yaml:"default_vertex_timeout" mapstructure:"default_vertex_timeout"`
	// FailurePolicy is fail_fast or best_effort.
	FailurePolicy string `yaml:"failure_policy" mapstructure:"failure_policy"`
	// EventBufferSize is the per-subscriber event channel capacity used by
	// streaming transports.
	EventBufferSize int `yaml:"event_buffer_size" mapstructure:"event_buffer_size"`
	// Logging configures the engine logger.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to engine configuration.
func (c *EngineConfig) ApplyDefaults() {
	if c.FailurePolicy == "" {
		c.FailurePolicy = PolicyFailFast
	}
	if c.EventBufferSize == 0 {
		c.EventBufferSize = 256
	}
	c.Logging.ApplyDefaults()
}

// Validate validates engine configuration.
func (c *EngineConfig) Validate() error {
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("engine.max_concurrent must be >= 0 (got: %d)", c.MaxConcurrent)
	}
	if c.FailurePolicy != PolicyFailFast && c.FailurePolicy != PolicyBestEffort {
		return fmt.Errorf("engine.failure_policy must be one of [%s, %s] (got: %s)",
			PolicyFailFast, PolicyBestEffort, c.FailurePolicy)
	}
	if c.EventBufferSize < 0 {
		return fmt.Errorf("engine.event_buffer_size must be >= 0 (got: %d)", c.EventBufferSize)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("engine.logging: %w", err)
	}
	return nil
}
