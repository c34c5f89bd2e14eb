package gateway

import (
	"context"
	"io"

	"convert-service/ddd/domain/vo"
)

// TrackStream 从容器里抽取出的一条流
type TrackStream struct {
	Language string
	Stream   io.ReadCloser
}

// MediaInfo 探测结果
type MediaInfo struct {
	DurationSeconds float64
	Streams         []vo.MediaStream
}

// MediaProcessor 外部转码能力（ffmpeg/ffprobe）的网关。
// 所有接收对象路径的方法都自行负责从存储取回数据。
type MediaProcessor interface {
	// Probe returns duration and stream layout of the stored object.
	Probe(ctx context.Context, objectKey string) (*MediaInfo, error)

	// ExtractTracks demuxes every embedded video track of the stored object.
	ExtractTracks(ctx context.Context, objectKey string) ([]TrackStream, error)

	// ExtractSubtitles demuxes every embedded subtitle stream of the stored object.
	ExtractSubtitles(ctx context.Context, objectKey string) ([]TrackStream, error)

	// ConvertToMP4 transcodes one stream to the web-playable target format.
	ConvertToMP4(ctx context.Context, r io.Reader, sourceExt string) (io.ReadCloser, error)

	// ConvertToVTT normalizes one subtitle stream to WebVTT.
	ConvertToVTT(ctx context.Context, r io.Reader) (io.ReadCloser, error)
}
