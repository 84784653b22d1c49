package schedule

import "errors"

// 面向调用方的错误分类，统一用 errors.Is 判断
var (
	// ErrInvalidIdentifier 标识符本身不合法（轮次、会话编号、会话名称/缩写）
	ErrInvalidIdentifier = errors.New("无效的标识符")
	// ErrNotFound 标识符合法，但赛程中没有对应的赛事或会话
	ErrNotFound = errors.New("未找到")
	// ErrMutuallyExclusive 同时传入了互斥参数
	ErrMutuallyExclusive = errors.New("参数互斥")
	// ErrInvalidRecord 数据源返回的行无法转换为赛程表结构
	ErrInvalidRecord = errors.New("赛程数据不合法")
)
