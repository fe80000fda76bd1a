package app

import (
	"context"
	"fmt"

	dmcfg "dammed/internal/config"
	"dammed/internal/logger"
	"dammed/internal/store/gormstore"
	"dammed/internal/store/tracelog"
	apihttp "dammed/internal/transport/http"

	"golang.org/x/sync/errgroup"
)

// App 负责应用级编排：加载配置→初始化依赖→启动 HTTP 服务。
type App struct {
	cfg    *dmcfg.Config
	store  *gormstore.GormStore
	traces *tracelog.TraceStore
	server *apihttp.Server
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *dmcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildApp(cfg)
}

// Run 启动 HTTP 服务并阻塞至上下文取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.server == nil {
		return fmt.Errorf("http server not initialized")
	}
	defer a.Close()

	logger.Infof("✓ HTTP 服务监听 %s", a.server.Addr())

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Close 关闭持久化资源。
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.traces != nil {
		if err := a.traces.Close(); err != nil {
			logger.Warnf("关闭留痕存储失败: %v", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warnf("关闭主存储失败: %v", err)
		}
	}
}
