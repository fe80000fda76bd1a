package app

import (
	"fmt"
	"time"

	"dammed/internal/analysis"
	"dammed/internal/auth"
	dmcfg "dammed/internal/config"
	"dammed/internal/gateway/provider"
	"dammed/internal/logger"
	"dammed/internal/prompt"
	"dammed/internal/store/gormstore"
	"dammed/internal/store/tracelog"
	apihttp "dammed/internal/transport/http"
)

// buildApp 手工装配全部依赖。构建失败时已创建的资源会被回收。
func buildApp(cfg *dmcfg.Config) (*App, error) {
	providers := buildProviders(cfg)
	if len(providers) == 0 {
		return nil, fmt.Errorf("配置中没有启用的模型")
	}

	store, err := gormstore.NewGormStore(cfg.Store.DBPath)
	if err != nil {
		return nil, fmt.Errorf("初始化主存储失败: %w", err)
	}

	traces, err := tracelog.NewTraceStore(cfg.Store.TracePath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("初始化留痕存储失败: %w", err)
	}

	prompts, err := prompt.NewLibrary(cfg.AI.PromptProfile)
	if err != nil {
		traces.Close()
		store.Close()
		return nil, fmt.Errorf("加载提示词档案失败: %w", err)
	}

	runner, err := analysis.NewRunner(analysis.RunnerConfig{
		Providers: providers,
		Prompts:   prompts,
		Traces:    traces,
		MaxItems:  cfg.Analysis.MaxItems,
		Workers:   cfg.Analysis.Workers,
	})
	if err != nil {
		traces.Close()
		store.Close()
		return nil, fmt.Errorf("初始化流水线失败: %w", err)
	}

	authSvc, err := auth.NewService(store, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		traces.Close()
		store.Close()
		return nil, fmt.Errorf("初始化认证服务失败: %w", err)
	}

	router := apihttp.NewRouter(authSvc, store, traces, runner, cfg.App.UploadDir)
	server, err := apihttp.NewServer(cfg.App.HTTPAddr, router)
	if err != nil {
		traces.Close()
		store.Close()
		return nil, fmt.Errorf("初始化 HTTP 服务失败: %w", err)
	}

	logger.Infof("✓ 依赖装配完成（模型数=%d，max_items=%d）", len(providers), cfg.Analysis.MaxItems)
	return &App{
		cfg:    cfg,
		store:  store,
		traces: traces,
		server: server,
	}, nil
}

func buildProviders(cfg *dmcfg.Config) []provider.ModelProvider {
	models := make([]provider.ModelCfg, 0, len(cfg.AI.Models))
	for _, m := range cfg.AI.Models {
		models = append(models, provider.ModelCfg{
			ID:             m.ID,
			Provider:       m.Provider,
			Enabled:        m.Enabled,
			APIURL:         m.APIURL,
			APIKey:         m.APIKey,
			Model:          m.Model,
			Headers:        m.Headers,
			SupportsVision: m.SupportsVision,
		})
	}
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	return provider.BuildProvidersFromConfig(models, timeout)
}
