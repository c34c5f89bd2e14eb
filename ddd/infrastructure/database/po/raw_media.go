package po

// RawMedia 原始媒体持久化对象
type RawMedia struct {
	BaseModel
	MediaUUID              string     `gorm:"column:media_uuid;type:varchar(36);uniqueIndex" json:"media_uuid"`
	UserUUID               string     `gorm:"column:user_uuid;type:varchar(36);uniqueIndex:uk_user_path,priority:1;index" json:"user_uuid"`
	Name                   string     `gorm:"column:name;type:varchar(255)" json:"name"`
	Path                   string     `gorm:"column:path;type:varchar(512);uniqueIndex:uk_user_path,priority:2" json:"path"`
	Kind                   string     `gorm:"column:kind;type:varchar(20)" json:"kind"`
	ExtractTracksStatus    string     `gorm:"column:extract_tracks_status;type:varchar(20);index" json:"extract_tracks_status"`
	ExtractSubtitlesStatus string     `gorm:"column:extract_subtitles_status;type:varchar(20);index" json:"extract_subtitles_status"`
	DurationSeconds        float64    `gorm:"column:duration_seconds;type:double" json:"duration_seconds"`
	Streams                StreamList `gorm:"column:streams;type:json" json:"streams"`
}

// TableName 指定表名
func (RawMedia) TableName() string {
	return "raw_media"
}
