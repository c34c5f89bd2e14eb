package vo

// MediaKind 原始媒体种类
type MediaKind string

const (
	// MediaKindVideo 视频文件
	MediaKindVideo MediaKind = "video"
	// MediaKindSubtitle 字幕文件
	MediaKindSubtitle MediaKind = "subtitle"
)

// IsValid 检查种类是否有效
func (k MediaKind) IsValid() bool {
	return k == MediaKindVideo || k == MediaKindSubtitle
}

// String 返回种类字符串
func (k MediaKind) String() string {
	return string(k)
}

// ConversionTask identifies one of the two independent async tasks tracked on a raw media row.
type ConversionTask string

const (
	TaskExtractTracks    ConversionTask = "extract-tracks"
	TaskExtractSubtitles ConversionTask = "extract-subtitles"
)

// LanguageUndetermined is assigned to embedded tracks that declare no language tag.
const LanguageUndetermined = "und"
