package config

import (
	"encoding/json"
	"fmt"
	"os"

	"binance-momentum-bot-go/internal/models"
)

// LoadConfig 从指定路径加载JSON配置文件并解析到Config结构体中
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := &models.Config{}
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}

	applyDefaults(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyDefaults 填充省略项的默认值
func applyDefaults(cfg *models.Config) {
	if cfg.KlineInterval == "" {
		cfg.KlineInterval = "5m"
	}
	if cfg.CandleLimit == 0 {
		cfg.CandleLimit = 100
	}
	if cfg.RSIPeriod == 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.PollIntervalSec == 0 {
		cfg.PollIntervalSec = 60
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "data/positions"
	}
	for i := range cfg.Symbols {
		if cfg.Symbols[i].QuoteAsset == "" {
			cfg.Symbols[i].QuoteAsset = "USDT"
		}
		if cfg.Symbols[i].Rounding == "" {
			cfg.Symbols[i].Rounding = models.RoundingNone
		}
	}
}

// validate 检查配置中明显的错误，尽早失败
func validate(cfg *models.Config) error {
	if len(cfg.Symbols) == 0 {
		return fmt.Errorf("配置中至少需要一个交易对")
	}
	for _, s := range cfg.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("交易对名称不能为空")
		}
		if s.NotionalAmount <= 0 {
			return fmt.Errorf("交易对 %s 的 notional_amount 必须为正数", s.Symbol)
		}
		switch s.Rounding {
		case models.RoundingFloor, models.RoundingRound, models.RoundingNone:
		default:
			return fmt.Errorf("交易对 %s 的 rounding 必须是 floor、round 或 none", s.Symbol)
		}
	}
	if cfg.ProfitTargetPct <= 0 {
		return fmt.Errorf("profit_target_pct 必须为正数")
	}
	if cfg.TrailingStopPct < 0 {
		return fmt.Errorf("trailing_stop_pct 不能为负数")
	}
	return nil
}
