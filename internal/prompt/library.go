package prompt

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"dammed/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileConfig 提示词 profile 文件结构。
type FileConfig struct {
	Prompts Profile `yaml:"prompts"`
}

// Snapshot 对外暴露的只读快照。
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Profile  Profile
}

// Library 管理提示词模板：内置默认值 + 可选 YAML 覆盖文件（热更新）。
type Library struct {
	path string
	v    *viper.Viper

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewLibrary 读取 profile 文件（path 为空则仅用内置默认值）并监听热更新。
func NewLibrary(path string) (*Library, error) {
	l := &Library{path: strings.TrimSpace(path)}
	if l.path == "" {
		l.snapshot = Snapshot{Version: 1, LoadedAt: time.Now(), Profile: Defaults()}
		return l, nil
	}
	v := viper.New()
	v.SetConfigFile(l.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read prompt profile failed: %w", err)
	}
	l.v = v
	if err := l.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := l.reload(); err != nil {
			logger.Errorf("prompt profile reload failed (%s): %v", evt.Name, err)
		}
	})
	v.WatchConfig()
	return l, nil
}

func (l *Library) reload() error {
	cfg, err := readProfileFile(l.path)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.snapshot = Snapshot{
		Version:  l.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Profile:  cfg.Prompts.withDefaults(),
	}
	version := l.snapshot.Version
	l.mu.Unlock()
	logger.Infof("提示词 profile 已加载: %s (version=%d)", l.path, version)
	return nil
}

// Snapshot 返回当前提示词快照。
func (l *Library) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}

func readProfileFile(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read prompt profile failed: %w", err)
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse prompt profile failed: %w", err)
	}
	return cfg, nil
}
