package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidscribe/internal/config"
	"vidscribe/internal/logging"
)

// errSilentFailure marks a failure whose details were already printed.
var errSilentFailure = errors.New("one or more inputs failed")

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, resolved, _, err := config.Load(c.explicitConfigPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) explicitConfigPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// resolvedConfigPath is the file config commands read and write.
func (c *commandContext) resolvedConfigPath() (string, error) {
	if _, err := c.ensureConfig(); err == nil && c.configPath != "" {
		return c.configPath, nil
	}
	if explicit := c.explicitConfigPath(); explicit != "" {
		return config.ExpandPath(explicit)
	}
	return config.DefaultConfigPath()
}

// logger builds the stderr logger from [logging] with flag overrides.
func (c *commandContext) logger() (*slog.Logger, error) {
	opts := logging.OptionsFromConfig(c.configValue())
	if c.logLevelFlag != nil {
		opts.Level = config.ResolveString(*c.logLevelFlag, opts.Level, "warn")
	}
	if c.logFormatFlag != nil {
		opts.Format = config.ResolveString(*c.logFormatFlag, opts.Format, "console")
	}
	return logging.New(opts)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
