package gateway

import (
	"context"
	"io"
)

// Object path convention: {userUUID}/{category}/{baseName}[_{language}].{ext}
const (
	CategoryRawVideos       = "raw_videos"
	CategoryRawSubtitles    = "raw_subtitles"
	CategoryConvertedVideos = "converted_videos"
)

// StoredObject 上传结果
type StoredObject struct {
	Path string
	Link string
}

// StorageGateway 对象存储网关
type StorageGateway interface {
	// Upload stores the stream under objectKey and returns its path and public link.
	Upload(ctx context.Context, r io.Reader, size int64, objectKey, contentType string) (StoredObject, error)

	// Download opens the object for reading; the caller closes it.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// LinkFor resolves the public link for an already stored object.
	LinkFor(objectKey string) string
}
