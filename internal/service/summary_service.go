package service

import (
	"context"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"problem-tracker/constant"
	"problem-tracker/internal/model"
	"problem-tracker/pkg/logging"
)

// DailySummary 定时任务输出：三个分类的数量 + 当天状态更新次数
type DailySummary struct {
	model.Summary
	Date         string `json:"date"`
	UpdatesToday int64  `json:"updatesToday"`
}

// BuildSummary 读取两份文档并统计
func BuildSummary(ctx context.Context) (*DailySummary, error) {
	resp, err := ListProblems(ctx)
	if err != nil {
		return nil, err
	}

	now := clock()
	summary := &DailySummary{
		Summary: model.Summarize(resp.Problems, resp.Status),
		Date:    constant.Today(now),
	}

	withConn(func(conn redis.Conn) {
		if updates, err := GetDailyUpdates(conn, constant.GetDateKey(now)); err == nil {
			summary.UpdatesToday = updates
		}
	})
	return summary, nil
}

// StatisticalData 定时任务入口
func StatisticalData() error {
	logging.Logger.Info("StatisticalData start")

	summary, err := BuildSummary(context.Background())
	if err != nil {
		logging.Logger.Error("统计题目数据失败", zap.Error(err))
		return err
	}

	logging.Logger.Info("StatisticalData end",
		zap.String("date", summary.Date),
		zap.Int("all", summary.All),
		zap.Int("pending", summary.Pending),
		zap.Int("completed", summary.Completed),
		zap.Int64("updates_today", summary.UpdatesToday),
	)
	return nil
}
