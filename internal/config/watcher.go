package config

import (
	"fmt"
	"strings"

	"github.com/nacos-group/nacos-sdk-go/v2/clients"
	"github.com/nacos-group/nacos-sdk-go/v2/clients/config_client"
	"github.com/nacos-group/nacos-sdk-go/v2/common/constant"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
	"github.com/spf13/viper"
	"github.com/zgsm-ai/tool-reply/internal/logger"
	"go.uber.org/zap"
)

// MonitorConfigWatcher pulls monitor thresholds from the configuration
// center and pushes updates to the registered callback, so thresholds stay
// tunable without a redeploy.
type MonitorConfigWatcher struct {
	client      config_client.IConfigClient
	config      NacosConfig
	isConnected bool
}

// NewMonitorConfigWatcher creates a watcher connected to Nacos
func NewMonitorConfigWatcher(config NacosConfig) (*MonitorConfigWatcher, error) {
	serverConfig := []constant.ServerConfig{
		{
			IpAddr:   config.ServerAddr,
			Port:     uint64(config.ServerPort),
			GrpcPort: uint64(config.GrpcPort),
		},
	}
	clientConfig := constant.ClientConfig{
		NamespaceId:         config.Namespace,
		TimeoutMs:           uint64(config.TimeoutSec * 1000),
		NotLoadCacheAtStart: true,
		LogDir:              config.LogDir,
		CacheDir:            config.CacheDir,
	}

	client, err := clients.NewConfigClient(
		vo.NacosClientParam{
			ClientConfig:  &clientConfig,
			ServerConfigs: serverConfig,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Nacos client: %w", err)
	}

	logger.Info("Nacos client initialized successfully",
		zap.String("serverAddr", config.ServerAddr),
		zap.Int("serverPort", config.ServerPort),
		zap.String("namespace", config.Namespace),
		zap.String("group", config.Group))

	return &MonitorConfigWatcher{
		client:      client,
		config:      config,
		isConnected: true,
	}, nil
}

// LoadMonitorConfig fetches the current monitor configuration
func (w *MonitorConfigWatcher) LoadMonitorConfig() (*MonitorConfig, error) {
	if !w.isConnected {
		return nil, fmt.Errorf("nacos client is not connected")
	}

	content, err := w.client.GetConfig(vo.ConfigParam{
		DataId: w.config.MonitorDataId,
		Group:  w.config.Group,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s config from Nacos: %w", w.config.MonitorDataId, err)
	}
	if content == "" {
		return nil, fmt.Errorf("%s config is empty in Nacos", w.config.MonitorDataId)
	}

	var mc MonitorConfig
	if err := unmarshalYAMLContent(content, &mc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", w.config.MonitorDataId, err)
	}

	logger.Info("Monitor configuration loaded from Nacos",
		zap.String("group", w.config.Group),
		zap.String("dataId", w.config.MonitorDataId))

	return &mc, nil
}

// StartWatching listens for monitor configuration changes and invokes
// onChange for each valid update
func (w *MonitorConfigWatcher) StartWatching(onChange func(MonitorConfig)) error {
	if !w.isConnected {
		return fmt.Errorf("nacos client is not connected")
	}

	err := w.client.ListenConfig(vo.ConfigParam{
		DataId: w.config.MonitorDataId,
		Group:  w.config.Group,
		OnChange: func(namespace, group, dataId, data string) {
			logger.Info("Monitor configuration change detected",
				zap.String("namespace", namespace),
				zap.String("group", group),
				zap.String("dataId", dataId),
				zap.Int("dataLength", len(data)))

			var mc MonitorConfig
			if err := unmarshalYAMLContent(data, &mc); err != nil {
				logger.Error("Failed to parse monitor configuration change",
					zap.Error(err),
					zap.String("dataId", dataId))
				return
			}
			onChange(mc)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to listen for config changes: %w", err)
	}

	logger.Info("Watching for monitor configuration changes",
		zap.String("group", w.config.Group),
		zap.String("dataId", w.config.MonitorDataId))

	return nil
}

// Close closes the Nacos client connection
func (w *MonitorConfigWatcher) Close() error {
	if w.client != nil {
		w.isConnected = false
		logger.Info("Nacos client connection closed")
	}
	return nil
}

// IsConnected returns whether the Nacos client is connected
func (w *MonitorConfigWatcher) IsConnected() bool {
	return w.isConnected
}

// unmarshalYAMLContent parses YAML content into target
func unmarshalYAMLContent(content string, target interface{}) error {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}
