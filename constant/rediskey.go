package constant

import (
	"fmt"
	"time"
)

// 常量定义
const (
	BasePrefix = "tracker:"
	Separator  = ":"

	// DateLayout 打卡日期格式（YYYY-MM-DD）
	DateLayout = "2006-01-02"
)

// Redis 键模板
const (
	Snapshot     = BasePrefix + "snapshot"                   // tracker:snapshot
	Generation   = BasePrefix + "generation"                 // tracker:generation，每次写入加一
	DailyUpdates = BasePrefix + "updates" + Separator + "%s" // tracker:updates:yyyyMMdd
	NoPID        = "none"                                    // 缺失 pid 时的 hash field
)

// GetSnapshotKey 读接口快照 key
func GetSnapshotKey() string {
	return Snapshot
}

// GetGenerationKey 写入计数 key，快照回写前 WATCH 它
func GetGenerationKey() string {
	return Generation
}

// GetDateKey 生成日期键（格式：yyyyMMdd）
func GetDateKey(t time.Time) string {
	return t.UTC().Format("20060102")
}

// GetDailyUpdatesKey 生成每日状态更新计数键（格式：tracker:updates:yyyyMMdd）
func GetDailyUpdatesKey(date string) string {
	return fmt.Sprintf(DailyUpdates, date)
}

// Today 返回 UTC 当天日期，与浏览器 toISOString 的日期部分一致
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}
