package config

import "strings"

// 默认值常量
const (
	defaultAppEnv         = "dev"
	defaultAppLogLevel    = "info"
	defaultAppHTTPAddr    = ":8090"
	defaultAppUploadDir   = "data/uploads"
	defaultStoreDBPath    = "data/dammed.db"
	defaultStoreTracePath = "data/traces.db"
	defaultAITimeout      = 120
	defaultTokenTTLHours  = 24 * 7
	defaultMaxItems       = 2
)

// applyDefaults 为所有子配置应用默认值（仅填充未设置的字段）。
func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.Env) == "" {
		c.App.Env = defaultAppEnv
	}
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = defaultAppLogLevel
	}
	if strings.TrimSpace(c.App.HTTPAddr) == "" {
		c.App.HTTPAddr = defaultAppHTTPAddr
	}
	if strings.TrimSpace(c.App.UploadDir) == "" {
		c.App.UploadDir = defaultAppUploadDir
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = defaultTokenTTLHours
	}
	if strings.TrimSpace(c.Store.DBPath) == "" {
		c.Store.DBPath = defaultStoreDBPath
	}
	if strings.TrimSpace(c.Store.TracePath) == "" {
		c.Store.TracePath = defaultStoreTracePath
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = defaultAITimeout
	}
	if c.Analysis.MaxItems <= 0 {
		c.Analysis.MaxItems = defaultMaxItems
	}
	if c.Analysis.Workers <= 0 {
		c.Analysis.Workers = c.Analysis.MaxItems
	}
}
