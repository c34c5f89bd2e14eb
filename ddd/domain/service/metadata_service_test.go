package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/vo"
	"convert-service/ddd/infrastructure/database/memory"
	"convert-service/pkg/errno"
)

func TestMetadataService_FillMetadata(t *testing.T) {
	ctx := context.Background()
	rawRepo := memory.NewRawMediaRepository()
	processor := &fakeProcessor{
		probeInfo: &gateway.MediaInfo{
			DurationSeconds: 123.5,
			Streams: []vo.MediaStream{
				{Index: 0, CodecType: "video", CodecName: "h264", Language: "eng"},
				{Index: 1, CodecType: "audio", CodecName: "aac"},
			},
		},
	}
	events := &capturePublisher{}
	svc := NewMetadataService(rawRepo, processor, events)

	media := entity.NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKindVideo)
	require.NoError(t, rawRepo.CreateOrReplace(ctx, media))

	require.NoError(t, svc.FillMetadata(ctx, media.UUID))

	stored, err := rawRepo.GetByUUID(ctx, media.UUID)
	require.NoError(t, err)
	require.Equal(t, 123.5, stored.DurationSeconds)
	require.Len(t, stored.Streams, 2)
	require.Equal(t, "h264", stored.Streams[0].CodecName)
	require.Equal(t, []vo.EventKind{vo.EventMetadataFilled}, events.events)
}

func TestMetadataService_FillMetadataUnknownMedia(t *testing.T) {
	svc := NewMetadataService(memory.NewRawMediaRepository(), &fakeProcessor{}, &capturePublisher{})

	err := svc.FillMetadata(context.Background(), "no-such-uuid")
	require.ErrorIs(t, err, errno.ErrRawMediaNotFound)
}

func TestMetadataService_FillMetadataProbeFailure(t *testing.T) {
	ctx := context.Background()
	rawRepo := memory.NewRawMediaRepository()
	processor := &fakeProcessor{probeErr: errno.ErrProcessorOperation}
	svc := NewMetadataService(rawRepo, processor, &capturePublisher{})

	media := entity.NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKindVideo)
	require.NoError(t, rawRepo.CreateOrReplace(ctx, media))

	err := svc.FillMetadata(ctx, media.UUID)
	require.ErrorIs(t, err, errno.ErrProcessorOperation)

	// nothing persisted on failure
	stored, err := rawRepo.GetByUUID(ctx, media.UUID)
	require.NoError(t, err)
	require.Zero(t, stored.DurationSeconds)
	require.Empty(t, stored.Streams)
}
