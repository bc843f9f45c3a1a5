package repository

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"problem-tracker/internal/config"
	"problem-tracker/internal/model"
	"problem-tracker/pkg/logging"
)

var (
	Problems *ProblemStore
	Statuses *StatusStore
)

// ProblemStore problems.json：只追加，不修改不删除
type ProblemStore struct {
	doc *document[model.Problem]
}

func NewProblemStore(path string) *ProblemStore {
	return &ProblemStore{doc: newDocument[model.Problem](path)}
}

func (s *ProblemStore) Path() string {
	return s.doc.path
}

// List 返回全部题目
func (s *ProblemStore) List() ([]model.Problem, error) {
	return s.doc.load()
}

// Append 追加一道题目，不检查 id 是否重复
func (s *ProblemStore) Append(p model.Problem) error {
	return s.doc.update(func(items []model.Problem) ([]model.Problem, error) {
		return append(items, p), nil
	})
}

// StatusStore problemStatus.json：按 pid upsert
type StatusStore struct {
	doc *document[model.ProblemStatus]
}

func NewStatusStore(path string) *StatusStore {
	return &StatusStore{doc: newDocument[model.ProblemStatus](path)}
}

func (s *StatusStore) Path() string {
	return s.doc.path
}

// List 返回全部状态记录
func (s *StatusStore) List() ([]model.ProblemStatus, error) {
	return s.doc.load()
}

// Upsert 删除同 pid 的旧记录后把新记录追加到末尾
func (s *StatusStore) Upsert(status model.ProblemStatus) error {
	return s.Update(func(items []model.ProblemStatus) ([]model.ProblemStatus, error) {
		return ReplaceStatus(items, status), nil
	})
}

// Update 在文档锁内执行任意读-改-写
func (s *StatusStore) Update(fn func([]model.ProblemStatus) ([]model.ProblemStatus, error)) error {
	return s.doc.update(fn)
}

// ReplaceStatus 过滤掉所有同 pid 的记录，再把 status 放到最后
func ReplaceStatus(items []model.ProblemStatus, status model.ProblemStatus) []model.ProblemStatus {
	key := status.Key()
	out := make([]model.ProblemStatus, 0, len(items)+1)
	for _, item := range items {
		if item.Key() == key {
			continue
		}
		out = append(out, item)
	}
	return append(out, status)
}

// InitStore 按配置创建两个文档存储；create_if_missing 时补齐缺失的文件
func InitStore(cfg config.DataConfig) {
	Problems = NewProblemStore(filepath.Join(cfg.Dir, cfg.ProblemsFile))
	Statuses = NewStatusStore(filepath.Join(cfg.Dir, cfg.StatusFile))

	if cfg.CreateIfMissing {
		if err := EnsureDocuments(Problems, Statuses); err != nil {
			logging.Logger.Fatal("Failed to create data documents", zap.Error(err))
		}
	}

	logging.Logger.Info("Data documents ready",
		zap.String("problems", Problems.Path()),
		zap.String("status", Statuses.Path()),
	)
}

// EnsureDocuments 缺失的文档写成空数组
func EnsureDocuments(problems *ProblemStore, statuses *StatusStore) error {
	created, err := problems.doc.ensure()
	if err != nil {
		return fmt.Errorf("problems document: %w", err)
	}
	if created {
		logging.Logger.Info("Created empty document", zap.String("path", problems.Path()))
	}

	created, err = statuses.doc.ensure()
	if err != nil {
		return fmt.Errorf("status document: %w", err)
	}
	if created {
		logging.Logger.Info("Created empty document", zap.String("path", statuses.Path()))
	}
	return nil
}
