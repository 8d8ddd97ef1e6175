package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"newshub/config"
	"newshub/internal/handler"
	"newshub/internal/model"
	"newshub/internal/scheduler"
	"newshub/internal/service"
	"newshub/internal/store"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gin.SetMode(cfg.Server.Mode)

	// 初始化数据库
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	// 自动迁移
	db.AutoMigrate(&model.Category{}, &model.Article{}, &model.User{}, &model.SavedArticle{})

	st := store.New(db)

	// 初始化服务
	feedSvc := service.NewFeedService(st, cfg.Feeds)
	newsapiSvc := service.NewNewsAPIService(st, cfg.NewsAPI)

	// 启动定时任务
	sched := scheduler.NewScheduler(feedSvc, newsapiSvc, cfg.Cron)
	sched.Start()
	defer sched.Stop()

	// 初始化Gin
	r := gin.Default()

	// 注册路由
	h := handler.NewHandler(st, cfg)
	h.SetScheduler(sched)
	h.RegisterRoutes(r)

	// 启动服务
	log.Println("Server starting on", cfg.GetServerAddress())
	r.Run(cfg.GetServerAddress())
}
