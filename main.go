package main

import (
	"flag"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zgsm-ai/tool-reply/internal/bootstrap"
	"github.com/zgsm-ai/tool-reply/internal/config"
	"github.com/zgsm-ai/tool-reply/internal/handler"
	"github.com/zgsm-ai/tool-reply/internal/logger"
	"go.uber.org/zap"
)

// main is the entry point of the tool-reply service
func main() {
	var configFile string
	flag.StringVar(&configFile, "f", "etc/tool-reply.yaml", "the config file")
	flag.Parse()

	defer logger.Sync()

	c := config.MustLoadConfig(configFile)

	svcCtx := bootstrap.NewServiceContext(c)
	defer svcCtx.Stop()

	router := gin.New()
	router.Use(gin.Recovery())

	handler.RegisterHandlers(router, svcCtx)

	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	logger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
