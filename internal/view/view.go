// Package view 页面的客户端状态：两份数据、当前标签页、添加弹窗及草稿。
// 浏览器页面（web/static/app.js）与终端界面遵循同一套规则。
package view

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"problem-tracker/constant"
	"problem-tracker/internal/dto"
	"problem-tracker/internal/model"
)

// Tab 列表过滤方式
type Tab string

const (
	TabAll       Tab = "all"
	TabPending   Tab = "pending"
	TabCompleted Tab = "completed"
)

// Tabs 按页面上的顺序
var Tabs = []Tab{TabAll, TabPending, TabCompleted}

// API 视图依赖的三个接口
type API interface {
	Fetch(ctx context.Context) (*dto.ProblemsResponse, error)
	AddProblem(ctx context.Context, p model.Problem) error
	UpdateStatus(ctx context.Context, s model.ProblemStatus) error
}

// Draft 添加弹窗中的输入，四个字段都是输入框里的原始文本
type Draft struct {
	ID    string
	LcID  string
	Title string
	URL   string
}

// Problem 草稿转成请求体：id 按 Number() 转换（空串为 0，无法转换时为 null），其余为字符串
func (d Draft) Problem() model.Problem {
	return model.NewProblem(
		"id", draftNumber(d.ID),
		"lcId", d.LcID,
		"title", d.Title,
		"url", d.URL,
	)
}

func draftNumber(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

type View struct {
	api API
	now func() time.Time

	Problems     []model.Problem
	Status       []model.ProblemStatus
	ActiveTab    Tab
	ShowAddModal bool
	NewProblem   Draft

	index model.StatusIndex
}

// New 创建视图；now 为 nil 时使用 time.Now
func New(api API, now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	return &View{
		api:       api,
		now:       now,
		ActiveTab: TabAll,
		index:     model.StatusIndex{},
	}
}

// Load 拉取读接口并整体替换两个列表；失败时保留原有数据
func (v *View) Load(ctx context.Context) error {
	resp, err := v.api.Fetch(ctx)
	if err != nil {
		return err
	}
	v.Apply(resp)
	return nil
}

// Apply 用一次读接口的结果替换状态
func (v *View) Apply(resp *dto.ProblemsResponse) {
	v.Problems = resp.Problems
	v.Status = resp.Status
	v.index = model.IndexStatus(resp.Status)
}

// SetTab 切换过滤
func (v *View) SetTab(tab Tab) {
	v.ActiveTab = tab
}

// StatusOf 查找题目的完成记录
func (v *View) StatusOf(p model.Problem) (model.ProblemStatus, bool) {
	return v.index.Lookup(p)
}

// IsDone 有完成记录且次数大于 0
func (v *View) IsDone(p model.Problem) bool {
	return v.index.Completed(p)
}

// Filtered 当前标签页下的题目
func (v *View) Filtered() []model.Problem {
	return v.FilterBy(v.ActiveTab)
}

// FilterBy 指定标签页下的题目，保持原有顺序
func (v *View) FilterBy(tab Tab) []model.Problem {
	var keep func(model.Problem) bool
	switch tab {
	case TabPending:
		keep = v.index.Pending
	case TabCompleted:
		keep = v.index.Completed
	default:
		return v.Problems
	}

	out := make([]model.Problem, 0, len(v.Problems))
	for _, p := range v.Problems {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Counts 三个标签页的数量
func (v *View) Counts() model.Summary {
	return model.Summarize(v.Problems, v.Status)
}

func (v *View) OpenAddModal() {
	v.ShowAddModal = true
}

// CancelAdd 关闭弹窗，草稿保留到下次打开
func (v *View) CancelAdd() {
	v.ShowAddModal = false
}

// TakeDraft 取出草稿并清空、关闭弹窗
func (v *View) TakeDraft() model.Problem {
	p := v.NewProblem.Problem()
	v.NewProblem = Draft{}
	v.ShowAddModal = false
	return p
}

// SubmitAdd 发送草稿、清空并关闭弹窗，然后刷新
func (v *View) SubmitAdd(ctx context.Context) error {
	if err := v.api.AddProblem(ctx, v.TakeDraft()); err != nil {
		return err
	}
	return v.Load(ctx)
}

// NextStatus 在已有记录（或空记录）上加一次完成，pid 取题目 id 的原始值，日期取当天 UTC
func (v *View) NextStatus(p model.Problem) model.ProblemStatus {
	current := v.index[p.Key()]
	id, _ := p.Get("id")
	return current.Next(id, constant.Today(v.now()))
}

// MarkDone 计算新的完成记录并提交，然后刷新
func (v *View) MarkDone(ctx context.Context, p model.Problem) error {
	if err := v.api.UpdateStatus(ctx, v.NextStatus(p)); err != nil {
		return err
	}
	return v.Load(ctx)
}
