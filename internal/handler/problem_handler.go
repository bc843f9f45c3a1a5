package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"problem-tracker/internal/apperrors"
	"problem-tracker/internal/i18n"
	"problem-tracker/internal/model"
	"problem-tracker/internal/service"
	"problem-tracker/response"
)

// ListProblemsHandler GET /api/problems，返回 {problems, status}
func ListProblemsHandler(c *gin.Context) {
	resp, err := service.ListProblems(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AddProblemHandler POST /api/problems/add，请求体原样保存
func AddProblemHandler(c *gin.Context) {
	var problem model.Problem
	if err := c.ShouldBindJSON(&problem); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	if err := service.AddProblem(c.Request.Context(), problem); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Ack(i18n.T(c.Request.Context(), i18n.MsgProblemAdded, nil)))
}

// UpdateStatusHandler POST /api/problems/status，body 为 {pid, dailyCount, daily}
func UpdateStatusHandler(c *gin.Context) {
	var status model.ProblemStatus
	if err := c.ShouldBindJSON(&status); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	if err := service.UpdateStatus(c.Request.Context(), status); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Ack(i18n.T(c.Request.Context(), i18n.MsgStatusUpdated, nil)))
}

// MarkDoneHandler POST /api/problems/:id/done，由服务端计算新的完成记录
func MarkDoneHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		zap.L().Warn("Invalid problem ID",
			zap.String("id", idStr),
			zap.Error(err))
		_ = c.Error(apperrors.InvalidRequestError(i18n.MsgInvalidID))
		return
	}

	status, err := service.MarkDone(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(status, i18n.T(c.Request.Context(), i18n.MsgMarkedDone, nil)))
}
