package model

// StatusIndex pid -> 状态记录，同一 pid 只保留第一条（与顺序扫描的结果一致）
type StatusIndex map[Key]ProblemStatus

// IndexStatus 构建状态索引
func IndexStatus(status []ProblemStatus) StatusIndex {
	idx := make(StatusIndex, len(status))
	for _, s := range status {
		if _, ok := idx[s.Key()]; ok {
			continue
		}
		idx[s.Key()] = s
	}
	return idx
}

// Lookup 查找题目对应的状态记录
func (idx StatusIndex) Lookup(p Problem) (ProblemStatus, bool) {
	s, ok := idx[p.Key()]
	return s, ok
}

// Completed 有状态记录且 dailyCount > 0
func (idx StatusIndex) Completed(p Problem) bool {
	s, ok := idx.Lookup(p)
	return ok && s.Completed()
}

// Pending 没有状态记录，或 dailyCount 缺失 / 为 0
func (idx StatusIndex) Pending(p Problem) bool {
	s, ok := idx.Lookup(p)
	return !ok || s.Pending()
}

// Summary 三个分类的数量
type Summary struct {
	All       int `json:"all"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// Summarize 统计全部 / 待完成 / 已完成数量
func Summarize(problems []Problem, status []ProblemStatus) Summary {
	idx := IndexStatus(status)
	sum := Summary{All: len(problems)}
	for _, p := range problems {
		switch {
		case idx.Completed(p):
			sum.Completed++
		case idx.Pending(p):
			sum.Pending++
		}
	}
	return sum
}
