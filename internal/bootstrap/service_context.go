package bootstrap

import (
	"github.com/zgsm-ai/tool-reply/internal/cache"
	"github.com/zgsm-ai/tool-reply/internal/client"
	"github.com/zgsm-ai/tool-reply/internal/config"
	"github.com/zgsm-ai/tool-reply/internal/formatter"
	"github.com/zgsm-ai/tool-reply/internal/logger"
	"github.com/zgsm-ai/tool-reply/internal/monitor"
	"github.com/zgsm-ai/tool-reply/internal/prompt"
	"github.com/zgsm-ai/tool-reply/internal/service"
	"github.com/zgsm-ai/tool-reply/internal/template"
	"github.com/zgsm-ai/tool-reply/internal/tokenizer"
	"go.uber.org/zap"
)

// ServiceContext holds all service dependencies
type ServiceContext struct {
	Config config.Config

	// Formatting pipeline and its collaborators
	Cache     cache.ResponseCache
	Templates *template.Store
	Pipeline  *formatter.Pipeline
	Monitor   *monitor.PerformanceMonitor

	// Services
	LogRecord service.LogRecordInterface
	Metrics   service.MetricsInterface

	// Configuration center watcher, nil when disabled
	ConfigWatcher *config.MonitorConfigWatcher
}

// NewServiceContext creates a new service context with all dependencies
func NewServiceContext(c config.Config) *ServiceContext {
	// Initialize token counter
	tokenCounter, err := tokenizer.NewTokenCounter()
	if err != nil {
		panic("Failed to start NewTokenCounter:" + err.Error())
	}

	// Initialize response cache backend
	responseCache := newResponseCache(c)

	// Initialize template store and prompt builder
	templates := template.NewStore()
	builder := prompt.NewBuilder(templates)

	// Initialize generation backend client
	llmClient, err := client.NewLLMClient(c.LLM)
	if err != nil {
		panic("Failed to create LLM client:" + err.Error())
	}

	// Initialize performance monitor
	perfMonitor := monitor.NewPerformanceMonitor(c.Monitor)

	// Initialize metrics service
	metricsService := service.NewMetricsService()

	// Initialize request log service
	logRecord := service.NewLogRecordService(c)
	logRecord.SetMetricsService(metricsService)
	if err := logRecord.Start(); err != nil {
		panic("Failed to start log record service:" + err.Error())
	}

	pipeline := formatter.NewPipeline(responseCache, templates, builder, llmClient, tokenCounter, perfMonitor)

	svc := &ServiceContext{
		Config:    c,
		Cache:     responseCache,
		Templates: templates,
		Pipeline:  pipeline,
		Monitor:   perfMonitor,
		LogRecord: logRecord,
		Metrics:   metricsService,
	}

	svc.startConfigWatcher(c)

	return svc
}

// newResponseCache selects the cache backend from configuration
func newResponseCache(c config.Config) cache.ResponseCache {
	switch c.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(c.Redis, c.Cache)
	default:
		memoryCache, err := cache.NewMemoryCache(c.Cache)
		if err != nil {
			panic("Failed to create memory cache:" + err.Error())
		}
		return memoryCache
	}
}

// startConfigWatcher connects the monitor to the configuration center so
// thresholds stay tunable at runtime. Watcher failures are logged, not
// fatal; the monitor keeps its startup configuration.
func (svc *ServiceContext) startConfigWatcher(c config.Config) {
	if !c.Nacos.Enabled {
		return
	}

	watcher, err := config.NewMonitorConfigWatcher(c.Nacos)
	if err != nil {
		logger.Error("Failed to connect configuration center",
			zap.Error(err),
		)
		return
	}

	if mc, err := watcher.LoadMonitorConfig(); err != nil {
		logger.Warn("Failed to load monitor configuration from center",
			zap.Error(err),
		)
	} else {
		svc.Monitor.ApplyConfig(*mc)
	}

	if err := watcher.StartWatching(func(mc config.MonitorConfig) {
		svc.Monitor.ApplyConfig(mc)
	}); err != nil {
		logger.Error("Failed to watch monitor configuration",
			zap.Error(err),
		)
		watcher.Close()
		return
	}

	svc.ConfigWatcher = watcher
}

// Stop gracefully stops all services
func (svc *ServiceContext) Stop() {
	if svc.LogRecord != nil {
		svc.LogRecord.Stop()
	}
	if svc.ConfigWatcher != nil {
		svc.ConfigWatcher.Close()
	}
	if svc.Cache != nil {
		svc.Cache.Close()
	}
}
