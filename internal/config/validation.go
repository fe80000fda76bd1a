package config

import (
	"fmt"
	"strings"
)

// validate 在加载后做一致性检查；失败的配置直接拒绝启动。
func validate(c *Config) error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret 不能为空")
	}
	enabled := 0
	for i, m := range c.AI.Models {
		if !m.Enabled {
			continue
		}
		enabled++
		if strings.TrimSpace(m.Model) == "" {
			return fmt.Errorf("ai.models[%d].model 不能为空", i)
		}
	}
	if enabled == 0 {
		return fmt.Errorf("至少需要启用一个 ai.models 条目")
	}
	if c.Analysis.Workers > c.Analysis.MaxItems {
		c.Analysis.Workers = c.Analysis.MaxItems
	}
	return nil
}
