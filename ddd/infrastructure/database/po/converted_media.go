package po

// ConvertedMedia 转换产物聚合根持久化对象。
// raw_media_uuid 唯一索引保证每条原始媒体至多一行，并发创建由索引裁决。
type ConvertedMedia struct {
	BaseModel
	MediaUUID    string `gorm:"column:media_uuid;type:varchar(36);uniqueIndex" json:"media_uuid"`
	RawMediaUUID string `gorm:"column:raw_media_uuid;type:varchar(36);uniqueIndex" json:"raw_media_uuid"`
}

// TableName 指定表名
func (ConvertedMedia) TableName() string {
	return "converted_media"
}

// ConvertedTrack 可播放轨道持久化对象，(converted_media_uuid, language) 唯一
type ConvertedTrack struct {
	BaseModel
	TrackUUID          string `gorm:"column:track_uuid;type:varchar(36);uniqueIndex" json:"track_uuid"`
	ConvertedMediaUUID string `gorm:"column:converted_media_uuid;type:varchar(36);uniqueIndex:uk_cm_language,priority:1;index" json:"converted_media_uuid"`
	Path               string `gorm:"column:path;type:varchar(512)" json:"path"`
	Link               string `gorm:"column:link;type:varchar(512)" json:"link"`
	Language           string `gorm:"column:language;type:varchar(10);uniqueIndex:uk_cm_language,priority:2" json:"language"`
}

// TableName 指定表名
func (ConvertedTrack) TableName() string {
	return "converted_tracks"
}

// ConvertedSubtitle VTT字幕持久化对象，(converted_media_uuid, path) 唯一
type ConvertedSubtitle struct {
	BaseModel
	SubtitleUUID       string `gorm:"column:subtitle_uuid;type:varchar(36);uniqueIndex" json:"subtitle_uuid"`
	ConvertedMediaUUID string `gorm:"column:converted_media_uuid;type:varchar(36);uniqueIndex:uk_cm_path,priority:1;index" json:"converted_media_uuid"`
	Path               string `gorm:"column:path;type:varchar(512);uniqueIndex:uk_cm_path,priority:2" json:"path"`
	Link               string `gorm:"column:link;type:varchar(512)" json:"link"`
	Language           string `gorm:"column:language;type:varchar(10)" json:"language"`
}

// TableName 指定表名
func (ConvertedSubtitle) TableName() string {
	return "converted_subtitles"
}
