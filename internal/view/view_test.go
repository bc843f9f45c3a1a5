package view

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"problem-tracker/internal/dto"
	"problem-tracker/internal/model"
	"problem-tracker/internal/repository"
)

// fakeAPI 内存实现，写入规则与服务端一致
type fakeAPI struct {
	problems []model.Problem
	status   []model.ProblemStatus
	fail     error
	fetches  int
}

func (f *fakeAPI) Fetch(ctx context.Context) (*dto.ProblemsResponse, error) {
	f.fetches++
	if f.fail != nil {
		return nil, f.fail
	}
	return &dto.ProblemsResponse{
		Problems: append([]model.Problem(nil), f.problems...),
		Status:   append([]model.ProblemStatus(nil), f.status...),
	}, nil
}

func (f *fakeAPI) AddProblem(ctx context.Context, p model.Problem) error {
	f.problems = append(f.problems, p)
	return nil
}

func (f *fakeAPI) UpdateStatus(ctx context.Context, s model.ProblemStatus) error {
	f.status = repository.ReplaceStatus(f.status, s)
	return nil
}

var fixedNow = time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))

func newTestView(api *fakeAPI) *View {
	return New(api, func() time.Time { return fixedNow })
}

func problem(id int64, title string) model.Problem {
	return model.NewProblem("id", id, "lcId", title, "title", title, "url", "https://example.com/"+title)
}

func ids(problems []model.Problem) []string {
	out := make([]string, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.Text("id"))
	}
	return out
}

func dates(s model.ProblemStatus) []string {
	var out []string
	for _, d := range s.Dates() {
		out = append(out, string(d))
	}
	return out
}

func TestFilter(t *testing.T) {
	api := &fakeAPI{
		problems: []model.Problem{problem(1, "a"), problem(2, "b"), problem(3, "c"), problem(4, "d")},
		status: []model.ProblemStatus{
			model.NewStatus("pid", 2, "dailyCount", 1, "daily", []string{"2026-10-01"}),
			model.NewStatus("pid", 3, "dailyCount", 0),
			model.NewStatus("pid", 42, "dailyCount", 3),
		},
	}
	v := newTestView(api)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cases := []struct {
		tab  Tab
		want []string
	}{
		{TabAll, []string{"1", "2", "3", "4"}},
		{TabPending, []string{"1", "3", "4"}},
		{TabCompleted, []string{"2"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.tab), func(t *testing.T) {
			v.SetTab(tc.tab)
			if got := ids(v.Filtered()); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Filtered() = %v, want %v", got, tc.want)
			}
		})
	}

	counts := v.Counts()
	if counts.All != counts.Pending+counts.Completed {
		t.Errorf("all (%d) != pending (%d) + completed (%d)", counts.All, counts.Pending, counts.Completed)
	}
	if !v.IsDone(problem(2, "b")) || v.IsDone(problem(3, "c")) {
		t.Error("IsDone mismatch")
	}
}

func TestMarkDone(t *testing.T) {
	p := problem(1, "a")
	api := &fakeAPI{problems: []model.Problem{p}}
	v := newTestView(api)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}
	v.SetTab(TabPending)

	// 当天按 UTC 计算
	today := `"2026-10-20"`

	if err := v.MarkDone(ctx, p); err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}
	s, ok := v.StatusOf(p)
	if !ok || s.String() != `{"pid":1,"dailyCount":1,"daily":["2026-10-20"]}` {
		t.Fatalf("after first mark: %s %v", s, ok)
	}
	if len(v.Filtered()) != 0 {
		t.Error("problem still pending after mark done")
	}
	v.SetTab(TabCompleted)
	if got := ids(v.Filtered()); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("completed = %v", got)
	}

	if err := v.MarkDone(ctx, p); err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}
	if len(v.Status) != 1 {
		t.Fatalf("status duplicated: %v", v.Status)
	}
	s, _ = v.StatusOf(p)
	if s.Count() != 2 || !reflect.DeepEqual(dates(s), []string{today, today}) {
		t.Errorf("after second mark: %s", s)
	}
}

// id 不是数字时 pid 原样沿用，字符串 "7" 与数字 7 不是同一道题
func TestMarkDoneKeepsRawID(t *testing.T) {
	str := model.NewProblem("id", "7", "title", "string id")
	num := model.NewProblem("id", 7, "title", "number id")
	api := &fakeAPI{problems: []model.Problem{str, num}}
	v := newTestView(api)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}

	if err := v.MarkDone(ctx, str); err != nil {
		t.Fatal(err)
	}
	if !v.IsDone(str) || v.IsDone(num) {
		t.Errorf("done = %v / %v, status %v", v.IsDone(str), v.IsDone(num), v.Status)
	}
	if got := v.Status[0].String(); got != `{"pid":"7","dailyCount":1,"daily":["2026-10-20"]}` {
		t.Errorf("status = %s", got)
	}
}

func TestDraftProblem(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"9", `{"id":9,"lcId":"9","title":"t","url":"u"}`},
		{"1.5", `{"id":1.5,"lcId":"9","title":"t","url":"u"}`},
		{"", `{"id":0,"lcId":"9","title":"t","url":"u"}`},
		{"abc", `{"id":null,"lcId":"9","title":"t","url":"u"}`},
	}
	for _, tc := range cases {
		d := Draft{ID: tc.id, LcID: "9", Title: "t", URL: "u"}
		if got := d.Problem().String(); got != tc.want {
			t.Errorf("Draft{ID: %q}.Problem() = %s, want %s", tc.id, got, tc.want)
		}
	}
}

func TestSubmitAdd(t *testing.T) {
	api := &fakeAPI{}
	v := newTestView(api)
	ctx := context.Background()

	v.OpenAddModal()
	v.NewProblem = Draft{ID: "9", LcID: "9", Title: "Palindrome Number", URL: "https://leetcode.com/problems/palindrome-number/"}
	if err := v.SubmitAdd(ctx); err != nil {
		t.Fatalf("SubmitAdd failed: %v", err)
	}

	if v.ShowAddModal {
		t.Error("modal still open")
	}
	if v.NewProblem != (Draft{}) {
		t.Errorf("draft not cleared: %+v", v.NewProblem)
	}
	if len(v.Problems) != 1 || v.Problems[0].Text("title") != "Palindrome Number" {
		t.Errorf("problems = %v", v.Problems)
	}
	if api.fetches != 1 {
		t.Errorf("expected a refresh after add, got %d fetches", api.fetches)
	}

	// 空草稿也会提交
	v.OpenAddModal()
	if err := v.SubmitAdd(ctx); err != nil {
		t.Fatal(err)
	}
	if len(v.Problems) != 2 || v.Problems[1].Text("title") != "" {
		t.Errorf("empty draft not persisted: %v", v.Problems)
	}
}

func TestCancelKeepsDraft(t *testing.T) {
	v := newTestView(&fakeAPI{})
	v.OpenAddModal()
	v.NewProblem.Title = "half typed"
	v.CancelAdd()

	if v.ShowAddModal {
		t.Error("modal still open")
	}
	if v.NewProblem.Title != "half typed" {
		t.Error("cancel cleared the draft")
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	api := &fakeAPI{problems: []model.Problem{problem(1, "a")}}
	v := newTestView(api)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}

	api.fail = errors.New("connection refused")
	api.problems = nil
	if err := v.Load(ctx); err == nil {
		t.Fatal("expected error")
	}
	if len(v.Problems) != 1 {
		t.Errorf("state replaced on failure: %v", v.Problems)
	}
}
