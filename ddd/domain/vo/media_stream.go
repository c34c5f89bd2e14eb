package vo

// MediaStream 探测到的媒体流信息
type MediaStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Language  string `json:"language,omitempty"`
}

// IsVideo reports whether the stream carries video.
func (s MediaStream) IsVideo() bool { return s.CodecType == "video" }

// IsSubtitle reports whether the stream carries subtitles.
func (s MediaStream) IsSubtitle() bool { return s.CodecType == "subtitle" }

// LanguageOrDefault returns the declared language tag or the undetermined marker.
func (s MediaStream) LanguageOrDefault() string {
	if s.Language == "" {
		return LanguageUndetermined
	}
	return s.Language
}
