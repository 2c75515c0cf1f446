// cmd/gigdial/context.go
package main

import (
	"strings"
	"sync"

	"gigdial/internal/common/config"
	"gigdial/internal/common/logger"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the config once. An explicit --config path bypasses the
// configs/ search path and environment overlay.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path != "" {
			c.config, c.configErr = config.LoadFromFile(path)
			return
		}
		c.config, c.configErr = config.Load()
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (logger.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).
		WithFields(map[string]interface{}{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		}), nil
}
