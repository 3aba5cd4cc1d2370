// importemployees 从 Excel 文件批量导入员工名册
//
// 用法: go run ./cmd/importemployees -file employees.xlsx [-config config/config.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"bizops/config"
	"bizops/internal/repository"
	"bizops/internal/service"
	"bizops/pkg/database"
	applogger "bizops/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	filePath := flag.String("file", "", "员工 Excel 文件（表头: Employee ID, Name）")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "必须指定 -file")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	f, err := os.Open(*filePath)
	if err != nil {
		logger.Fatal("打开文件失败", zap.String("file", *filePath), zap.Error(err))
	}
	defer f.Close()

	// 导入不需要会话与 Redis
	employees := service.NewEmployeeService(repository.NewRepository(db), logger)

	rows, err := employees.ParseImportFile(f)
	if err != nil {
		logger.Fatal("解析员工文件失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := employees.ImportEmployees(ctx, rows)
	if err != nil {
		logger.Fatal("导入员工失败", zap.Error(err))
	}

	for _, e := range result.Errors {
		fmt.Printf("第 %d 行: %s\n", e.Row, e.Reason)
	}
	fmt.Printf("共 %d 行，成功 %d，失败 %d\n", result.Total, result.Imported, result.Failed)
}
