package main

import (
	"binance-momentum-bot-go/internal/bot"
	"binance-momentum-bot-go/internal/config"
	"binance-momentum-bot-go/internal/exchange"
	"binance-momentum-bot-go/internal/journal"
	"binance-momentum-bot-go/internal/logger"
	"binance-momentum-bot-go/internal/models"
	"binance-momentum-bot-go/internal/position"
	"binance-momentum-bot-go/internal/strategy"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// --- 命令行参数定义 ---
	configPath := flag.String("config", "config.json", "path to the config file")
	dryRun := flag.Bool("dry-run", false, "log decisions without submitting orders")
	flag.Parse()

	// --- 初始化日志 (提前) ---
	// 在加载 .env 和配置文件之前先用默认配置初始化一个 logger
	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	// --- 加载 .env 文件 ---
	if err := godotenv.Load(); err != nil {
		logger.S().Info("未找到 .env 文件，将从系统环境变量中读取。")
	} else {
		logger.S().Info("成功从 .env 文件加载配置。")
	}

	// --- 加载 JSON 配置 ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("无法加载配置文件: %v", err)
	}
	if *dryRun {
		cfg.DryRun = true
	}

	// --- 使用文件中的配置重新初始化日志 ---
	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	// --- 从环境变量加载API密钥 ---
	apiKey := os.Getenv("BINANCE_API_KEY")
	secretKey := os.Getenv("BINANCE_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		logger.S().Fatal("错误：BINANCE_API_KEY 和 BINANCE_SECRET_KEY 环境变量必须被设置。")
	}

	if cfg.IsTestnet {
		logger.S().Info("正在使用币安测试网...")
	} else {
		logger.S().Info("正在使用币安生产网...")
	}
	if cfg.DryRun {
		logger.S().Info("模拟模式已开启，所有订单只记录不提交。")
	}

	// --- 初始化持仓价格存储 ---
	store, err := position.NewBadgerStore(cfg.DBPath)
	if err != nil {
		logger.S().Fatalf("初始化持仓存储失败: %v", err)
	}
	defer store.Close()
	tracker := position.NewTracker(store)

	// --- 初始化成交流水 (可选) ---
	var j *journal.Journal
	if cfg.JournalPath != "" {
		j, err = journal.Open(cfg.JournalPath)
		if err != nil {
			logger.S().Fatalf("初始化成交流水失败: %v", err)
		}
		defer j.Close()
	}

	// --- 初始化交易所和机器人 ---
	ex := exchange.NewBinanceExchange(apiKey, secretKey, cfg.IsTestnet)
	engine := strategy.NewEngine(cfg, tracker)
	tradingBot := bot.NewTradingBot(cfg, ex, tracker, engine, j)

	// --- 等待中断信号以实现优雅退出 ---
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.S().Info("收到退出信号，等待当前周期结束...")
		tradingBot.Stop()
		cancel()
	}()

	if err := tradingBot.Run(ctx); err != nil && err != context.Canceled {
		logger.S().Fatalf("交易循环异常退出: %v", err)
	}
	logger.S().Info("机器人已成功停止。")
}
