// @title Lingua 后端 API
// @version 1.0
// @description Lingua 语言学习平台的后端服务器。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"log"

	"lingua_backend/internal/app"
	"lingua_backend/internal/config"
	"lingua_backend/internal/importer"
	"lingua_backend/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	seed := flag.String("seed", "", "导入 YAML 课程内容后退出，例如 configs/seed.yaml")
	importPath := flag.String("import", "", "导入 Excel 课程内容后退出")
	flag.Parse()

	// .env 不存在时直接使用环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	contentPath := *seed
	if *importPath != "" {
		contentPath = *importPath
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly || contentPath != ""
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	if contentPath != "" {
		defer application.Close()
		result, err := importer.New(application.CourseService()).ImportFile(context.Background(), contentPath)
		if err != nil {
			logger.Log.Fatal("Content import failed", zap.String("path", contentPath), zap.Error(err))
		}
		logger.Log.Info("Content imported",
			zap.Int("courses", result.Courses),
			zap.Int("challenges", result.Challenges),
			zap.Strings("errors", result.Errors),
		)
		return
	}

	application.Run()
}
