// processing_worker 是没有真实向量化流水线时的替身：
// 从任务主题读取文档，估算向量数后写回结果主题。
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"VectorConsole/backend/go/internal/config"
	"VectorConsole/backend/go/internal/console_service/processing"
	"VectorConsole/backend/go/internal/database/kafka"
	"VectorConsole/backend/go/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	workerLogger := logger.New("processing_worker", "", "")

	pc := cfg.Processing
	admin, err := kafka.GetClient(&cfg.Databases.Kafka, pc.JobsTopic, pc.ResultsTopic)
	if err != nil {
		workerLogger.WithError(err).Fatal("Failed to initialize Kafka")
	}
	defer admin.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := processing.NewWorker(cfg.Databases.Kafka.Brokers, pc.JobsTopic, pc.ResultsTopic, pc.GroupID+"-worker", workerLogger)
	workerLogger.Info("Processing worker started")
	worker.Run(ctx)

	if err := worker.Close(); err != nil {
		workerLogger.WithError(err).Error("Error closing worker")
	}
	workerLogger.Info("Processing worker stopped")
}
