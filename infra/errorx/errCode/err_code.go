package errCode

// 错误码
type ErrCode int

const (
	OK            ErrCode = iota
	INVALID_VALUE         // 参数非法
	EMPTY_VALUE           // 输入为空
	NOT_FOUND             // 查找不到
	IO_FAILURE            // 读写/网络失败
	UPSTREAM_FAILURE      // 外部服务返回异常
)

func (c ErrCode) String() string {
	switch c {
	case OK:
		return "OK"
	case INVALID_VALUE:
		return "INVALID_VALUE"
	case EMPTY_VALUE:
		return "EMPTY_VALUE"
	case NOT_FOUND:
		return "NOT_FOUND"
	case IO_FAILURE:
		return "IO_FAILURE"
	case UPSTREAM_FAILURE:
		return "UPSTREAM_FAILURE"
	default:
		return "UNKNOWN"
	}
}
