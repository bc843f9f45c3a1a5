package apperrors

import (
	"net/http"

	"problem-tracker/internal/i18n"
)

// AppError 自定义错误类型，Message 为 i18n 消息 ID，由错误中间件翻译
type AppError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode 创建通用业务错误
func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 携带底层错误
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// InvalidRequestError 封装参数错误
func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

// InvalidRequestErrorDefault 请求体无法解析
func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, i18n.MsgInvalidRequest)
}

// StorageError 文档读写失败
func StorageError(cause error) *AppError {
	return Wrap(http.StatusInternalServerError, i18n.MsgStorageError, cause)
}

// SystemErrorDefault 默认系统内部错误
func SystemErrorDefault() *AppError {
	return WithCode(http.StatusInternalServerError, i18n.MsgSystemError)
}
