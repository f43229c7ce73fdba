package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
	"github.com/Senorsean/crm-employ-2025-sub001/connection"
	"github.com/Senorsean/crm-employ-2025-sub001/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.Server.GinMode)
	if err := connection.StartServer(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
