package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"problem-tracker/constant"
	"problem-tracker/internal/apperrors"
	"problem-tracker/internal/dto"
	"problem-tracker/internal/model"
	"problem-tracker/internal/repository"
	"problem-tracker/pkg/logging"
)

// clock 测试中可替换
var clock = time.Now

// ListProblems 返回两份文档的全部内容，缓存命中时直接返回快照
func ListProblems(ctx context.Context) (*dto.ProblemsResponse, error) {
	session := openSnapshot()
	defer session.close()

	if snapshot, ok := session.load(); ok {
		return snapshot, nil
	}

	resp, err := readDocuments()
	if err != nil {
		return nil, err
	}
	session.store(resp)
	return resp, nil
}

// readDocuments 直接读取两份文档
func readDocuments() (*dto.ProblemsResponse, error) {
	problems, err := repository.Problems.List()
	if err != nil {
		logging.Logger.Error("读取题目文档失败",
			zap.String("path", repository.Problems.Path()),
			zap.Error(err))
		return nil, apperrors.StorageError(err)
	}

	status, err := repository.Statuses.List()
	if err != nil {
		logging.Logger.Error("读取状态文档失败",
			zap.String("path", repository.Statuses.Path()),
			zap.Error(err))
		return nil, apperrors.StorageError(err)
	}

	return &dto.ProblemsResponse{
		Problems: problems,
		Status:   status,
	}, nil
}

// AddProblem 原样追加，不校验字段、不检查 id 重复
func AddProblem(ctx context.Context, problem model.Problem) error {
	if err := repository.Problems.Append(problem); err != nil {
		logging.Logger.Error("追加题目失败",
			zap.String("path", repository.Problems.Path()),
			zap.Any("problem", problem),
			zap.Error(err))
		return apperrors.StorageError(err)
	}

	invalidateSnapshot()
	return nil
}

// UpdateStatus 按 pid upsert 调用方给出的完整记录，服务端不做计算
func UpdateStatus(ctx context.Context, status model.ProblemStatus) error {
	if err := repository.Statuses.Upsert(status); err != nil {
		logging.Logger.Error("更新状态失败",
			zap.String("path", repository.Statuses.Path()),
			zap.Any("status", status),
			zap.Error(err))
		return apperrors.StorageError(err)
	}

	invalidateSnapshot()
	recordDailyUpdate(status, clock())
	return nil
}

// MarkDone 服务端基于已存储的记录完成一次：dailyCount+1，追加当天日期
func MarkDone(ctx context.Context, pid int64) (*model.ProblemStatus, error) {
	now := clock()
	today := constant.Today(now)
	ref := model.NewStatus("pid", pid)
	raw, _ := ref.Get("pid")

	var next model.ProblemStatus
	err := repository.Statuses.Update(func(items []model.ProblemStatus) ([]model.ProblemStatus, error) {
		current := model.IndexStatus(items)[ref.Key()]
		next = current.Next(raw, today)
		return repository.ReplaceStatus(items, next), nil
	})
	if err != nil {
		logging.Logger.Error("标记完成失败",
			zap.Int64("pid", pid),
			zap.String("path", repository.Statuses.Path()),
			zap.Error(err))
		return nil, apperrors.StorageError(err)
	}

	invalidateSnapshot()
	recordDailyUpdate(next, now)
	return &next, nil
}
