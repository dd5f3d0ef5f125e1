package backtest

import "EliteScan/internal/domain/models"

// Aggregate reduces outcomes to summary statistics. Below minTrades the
// no-statistic sentinel is returned, whatever the outcomes look like.
func Aggregate(outcomes []models.TradeOutcome, minTrades int, stopLoss, takeProfit float64) models.BacktestStats {
	n := len(outcomes)
	if n == 0 || n < minTrades {
		return models.NoStatistic(n, stopLoss, takeProfit)
	}

	var sum, winSum, lossSum float64
	var wins, losses int
	for _, o := range outcomes {
		sum += o.Return
		switch {
		case o.Return > 0:
			wins++
			winSum += o.Return
		case o.Return < 0:
			losses++
			lossSum += o.Return
		}
	}

	st := models.BacktestStats{
		Trades:     n,
		WinRate:    float64(wins) / float64(n),
		Expectancy: sum / float64(n),
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Valid:      true,
	}
	if losses > 0 {
		var avgWin float64
		if wins > 0 {
			avgWin = winSum / float64(wins)
		}
		payoff := avgWin / -(lossSum / float64(losses))
		st.PayoffRatio = &payoff
	}
	return st
}
