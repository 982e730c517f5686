package reporter

import (
	"fmt"
	"math"
	"time"

	"binance-momentum-bot-go/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderCycle 将一个轮询周期内所有交易对的处理结果渲染成控制台表格。
func RenderCycle(results []models.CycleResult, at time.Time) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("交易周期 %s", at.Format("2006-01-02 15:04:05"))
	t.AppendHeader(table.Row{"交易对", "价格", "RSI", "阈值", "持仓成本", "盈亏%", "动作", "备注"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "价格", Align: text.AlignRight},
		{Name: "RSI", Align: text.AlignRight},
		{Name: "阈值", Align: text.AlignRight},
		{Name: "持仓成本", Align: text.AlignRight},
		{Name: "盈亏%", Align: text.AlignRight},
	})

	for _, r := range results {
		if r.Err != nil {
			t.AppendRow(table.Row{r.Symbol, "-", "-", "-", "-", "-", "错误", r.Err.Error()})
			continue
		}
		d := r.Decision
		action := string(d.Action)
		if r.Executed {
			action += " ✓"
		}
		t.AppendRow(table.Row{
			r.Symbol,
			formatPrice(d.Price),
			formatFloat(d.Signals.RSI, 2),
			d.Signals.RSIThreshold,
			formatPurchase(d),
			formatFloat(d.ProfitPct, 2),
			action,
			d.Reason,
		})
	}

	return t.Render()
}

// formatFloat 格式化指标值，NaN 显示为 "-"
func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.8f", v)
}

func formatPurchase(d *models.Decision) string {
	if !d.HasPurchase {
		return "-"
	}
	return formatPrice(d.PurchasePrice)
}
