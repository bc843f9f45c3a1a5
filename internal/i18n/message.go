package i18n

// 消息 ID，与 i18n/*.toml 中的键一一对应
const (
	MsgProblemAdded   = "problem_added"
	MsgStatusUpdated  = "status_updated"
	MsgMarkedDone     = "marked_done"
	MsgInvalidRequest = "invalid_request"
	MsgInvalidID      = "invalid_id"
	MsgStorageError   = "storage_error"
	MsgSystemError    = "system_error"
)
