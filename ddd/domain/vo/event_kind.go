package vo

// EventKind webhook/事件总线上的事件类型
type EventKind string

const (
	// EventMediaConverted 转换流水线成功完成
	EventMediaConverted EventKind = "media.converted"
	// EventMediaConvertFailed 转换流水线失败
	EventMediaConvertFailed EventKind = "media.convert_failed"
	// EventMetadataFilled 媒体元数据探测完成
	EventMetadataFilled EventKind = "media.metadata_filled"
)

// String 返回事件字符串
func (e EventKind) String() string {
	return string(e)
}
