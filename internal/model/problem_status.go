package model

import (
	"math"

	jsoniter "github.com/json-iterator/go"
)

// ProblemStatus 完成记录，约定字段为 pid、dailyCount（完成次数）、daily（每次完成的日期 YYYY-MM-DD）
type ProblemStatus struct {
	Record
}

// NewStatus 按 name, value 成对构造
func NewStatus(keysAndValues ...interface{}) ProblemStatus {
	return ProblemStatus{Record: NewRecord(keysAndValues...)}
}

// Key pid 字段的比较键
func (s ProblemStatus) Key() Key {
	return s.KeyOf("pid")
}

// Pending dailyCount 缺失、为 null 或为数字 0
func (s ProblemStatus) Pending() bool {
	raw, ok := s.Get("dailyCount")
	if !ok {
		return true
	}
	if !isNumber(raw) {
		return json.Get(raw).ValueType() == jsoniter.NilValue
	}
	n, _ := toNumber(raw)
	return n == 0
}

// Completed dailyCount 换算成数字后大于 0
func (s ProblemStatus) Completed() bool {
	raw, ok := s.Get("dailyCount")
	if !ok {
		return false
	}
	n, ok := toNumber(raw)
	return ok && n > 0
}

// Count 完成次数；缺失或无法换算为数字时为 0
func (s ProblemStatus) Count() float64 {
	raw, ok := s.Get("dailyCount")
	if !ok {
		return 0
	}
	n, ok := toNumber(raw)
	if !ok || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// Dates daily 数组的原始元素；不是数组时为空
func (s ProblemStatus) Dates() []jsoniter.RawMessage {
	raw, ok := s.Get("daily")
	if !ok {
		return nil
	}
	iter := json.BorrowIterator(raw)
	defer json.ReturnIterator(iter)
	if iter.WhatIsNext() != jsoniter.ArrayValue {
		return nil
	}

	var out []jsoniter.RawMessage
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		out = append(out, skipValue(it))
		return true
	})
	return out
}

// Next 在当前记录基础上再完成一次，得到 {pid, dailyCount, daily}：
// 次数加一、追加日期；pid 为 nil 时不写 pid 字段
func (s ProblemStatus) Next(pid jsoniter.RawMessage, date string) ProblemStatus {
	daily := append(s.Dates(), nil)
	daily[len(daily)-1], _ = json.Marshal(date)

	var r Record
	if pid != nil {
		r = r.With("pid", pid)
	}
	r = r.With("dailyCount", s.Count()+1).With("daily", daily)
	return ProblemStatus{Record: r}
}
