package main

import (
	"flag"
	"log"
	"strings"

	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/router"
)

var (
	configFile  string
	port        string
	showVersion bool
	migrateOnly bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "同步服务端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "同步服务端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
	flag.BoolVar(&migrateOnly, "migrate-only", false, "只建库/升级数据库后退出")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Printf("预算本地存储 v1.0.0（数据库结构 v%d）", database.SchemaVersion)
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	config.PrintConfig()

	// 打开数据库，必要时建库或升级
	store, err := database.Init(cfg)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}
	defer store.Close()

	if migrateOnly {
		log.Printf("数据库结构已是 v%d", database.SchemaVersion)
		return
	}
	if !cfg.Sync.Enabled {
		log.Println("同步服务未启用（sync.enabled=false），退出")
		return
	}

	middleware.InitJWT(cfg)
	r := router.SetupRouter(cfg, store)

	log.Printf("==========================================")
	log.Printf("  预算同步服务已启动")
	log.Printf("==========================================")
	log.Printf("  配对:  http://localhost%s/api/v1/pair", cfg.Server.Port)
	log.Printf("  同步:  http://localhost%s/api/v1/sync/{entity}", cfg.Server.Port)
	log.Printf("  导出:  http://localhost%s/api/v1/export/excel", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("同步服务启动失败: %v", err)
	}
}
