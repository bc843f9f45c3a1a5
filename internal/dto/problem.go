package dto

import "problem-tracker/internal/model"

// ProblemsResponse 读接口响应：两份文档原样返回，不分页不过滤
type ProblemsResponse struct {
	Problems []model.Problem       `json:"problems"`
	Status   []model.ProblemStatus `json:"status"`
}
