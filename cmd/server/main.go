package main

import (
	"log"
	"time"

	"github.com/gavraq/location-timeline/internal/api"
	"github.com/gavraq/location-timeline/internal/config"
	"github.com/gavraq/location-timeline/internal/database"
	"github.com/gavraq/location-timeline/internal/params"

	// Import detector packages to register them
	_ "github.com/gavraq/location-timeline/internal/analysis/activity"
)

func main() {
	// 加载配置
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	base, err := params.LoadFile(cfg.ParamsFile)
	if err != nil {
		log.Fatal("Failed to load thresholds:", err)
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	// 初始化路由
	router := api.SetupRouter(cfg, database.GetDB(), base, loc)

	// 启动服务器
	log.Printf("[Server] Starting on %s (tz=%s, auth=%t, trip workers=%d)", cfg.Port, loc, cfg.AuthEnabled, cfg.TripWorkers)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
