package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"

	"autofill-go/internal/api/handler"
	"autofill-go/internal/api/router"
	"autofill-go/internal/config"
	appCoreLogger "autofill-go/internal/logger"
	"autofill-go/internal/outbox"
	"autofill-go/internal/processor"
	"autofill-go/internal/storage"
)

var (
	version     = "1.0.0"       //nolint:gochecknoglobals
	serviceName = "autofill-go" //nolint:gochecknoglobals
)

func main() {
	initLogger()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	// 启动消息中继，把outbox表中的待发事件搬运到RabbitMQ
	relayLogger := log.New(appCoreLogger.Logger, "[MessageRelay] ", log.LstdFlags|log.Lshortfile)
	messageRelay := outbox.NewMessageRelay(storageManager.MySQL.DB(), storageManager.RabbitMQ, relayLogger)
	messageRelay.Start()
	glog.Info("消息中继服务已启动")

	autofillProcessor, err := processor.CreateProcessorFromConfig(ctx, cfg, storageManager)
	if err != nil {
		glog.Fatalf("初始化处理器失败: %v", err)
	}
	glog.Info("AutofillProcessor初始化成功")

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, autofillProcessor)
	fillHandler := handler.NewFillHandler(cfg, storageManager, autofillProcessor)
	glog.Info("API处理器初始化成功")

	go func() {
		parseConsumerWorkers := 5
		if workers, ok := cfg.RabbitMQ.ConsumerWorkers["parse_consumer_workers"]; ok {
			parseConsumerWorkers = workers
		}
		glog.Infof("启动简历解析消费者，预取数: %d", parseConsumerWorkers)
		if err := resumeHandler.StartResumeParseConsumer(context.Background(), parseConsumerWorkers); err != nil {
			glog.Fatalf("启动简历解析消费者失败: %v", err)
		}
		glog.Info("所有消费者已启动")
	}()

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, resumeHandler, fillHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	// 先停中继，避免关库后还在轮询
	messageRelay.Stop()
	glog.Info("消息中继服务已停止")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

func initLogger() {
	logFilePath := "logs/app.log"
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Fatalf("无法创建日志目录: %v", err)
	}
	fileWriter, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("无法打开日志文件 %s: %v", logFilePath, err)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	multiWriter := zerolog.MultiLevelWriter(consoleWriter, fileWriter)

	appCoreLogger.InitWithWriter(appCoreLogger.Config{
		Level:        "debug",
		TimeFormat:   "15:04:05",
		ReportCaller: true,
	}, multiWriter)
	appCoreLogger.Logger = appCoreLogger.Logger.With().
		Str("service", serviceName).
		Str("version", version).
		Logger()
	zlog.Logger = appCoreLogger.Logger

	// Hertz走同一个zerolog实例
	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
	glog.SetLevel(glog.LevelDebug)

	log.Println("Logger initialized with Zerolog, writing to console and file:", logFilePath)
}
