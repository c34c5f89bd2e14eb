package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/infrastructure/database/memory"
	"convert-service/ddd/infrastructure/queue"
	"convert-service/pkg/errno"
)

var testQueues = Queues{
	Metadata: "media.metadata",
	Convert:  "media.convert",
	Webhook:  "webhook.deliveries",
}

type mediaFixture struct {
	rawRepo   *memory.RawMediaRepository
	convRepo  *memory.ConvertedMediaRepository
	storage   *fakeStorage
	transport *queue.MemoryTransport
	svc       MediaService
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()
	f := &mediaFixture{
		rawRepo:   memory.NewRawMediaRepository(),
		convRepo:  memory.NewConvertedMediaRepository(),
		storage:   newFakeStorage(),
		transport: queue.NewMemoryTransport(),
	}
	f.svc = NewMediaService(f.rawRepo, f.convRepo, f.storage, f.transport, testQueues)
	return f
}

// drainOne leases the single message on a queue and decodes its envelope body into v.
func drainOne(t *testing.T, transport *queue.MemoryTransport, queueName string, v interface{}) {
	t.Helper()
	deliveries, err := transport.LeaseBatch(context.Background(), queueName, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	var env gateway.Envelope
	require.NoError(t, json.Unmarshal(deliveries[0].Payload, &env))
	require.NoError(t, json.Unmarshal(env.Body, v))
}

func TestMediaService_SaveRawVideo(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t)

	media, err := f.svc.SaveRawVideo(ctx, "user-1", "movie.mkv", strings.NewReader("bytes"), 5)
	require.NoError(t, err)
	require.Equal(t, "user-1/raw_videos/movie.mkv", media.Path)
	require.True(t, f.storage.has(media.Path))

	// one metadata job and one convert job, both pointing at the fresh record
	var metaJob entity.MetadataJob
	drainOne(t, f.transport, testQueues.Metadata, &metaJob)
	require.Equal(t, media.UUID, metaJob.RawMediaUUID)

	var convJob entity.ConvertJob
	drainOne(t, f.transport, testQueues.Convert, &convJob)
	require.Equal(t, media.UUID, convJob.RawMediaUUID)
	require.Equal(t, media.Kind, convJob.Kind)
}

func TestMediaService_SaveRawVideoReplacesSamePath(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t)

	first, err := f.svc.SaveRawVideo(ctx, "user-1", "movie.mkv", strings.NewReader("v1"), 2)
	require.NoError(t, err)
	second, err := f.svc.SaveRawVideo(ctx, "user-1", "movie.mkv", strings.NewReader("v2"), 2)
	require.NoError(t, err)
	require.NotEqual(t, first.UUID, second.UUID)

	// the old record is gone, only the replacement remains
	list, err := f.svc.ListMedia(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, second.UUID, list[0].UUID)

	_, err = f.svc.GetMedia(ctx, "user-1", first.UUID)
	require.ErrorIs(t, err, errno.ErrRawMediaNotFound)
}

func TestMediaService_SaveRawVideoValidation(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t)

	tests := []struct {
		name     string
		userUUID string
		fileName string
		wantErr  error
	}{
		{name: "missing user", userUUID: "", fileName: "movie.mkv", wantErr: errno.ErrUserUUIDRequired},
		{name: "empty file name", userUUID: "user-1", fileName: "", wantErr: errno.ErrFileNameIllegal},
		{name: "path traversal", userUUID: "user-1", fileName: "../evil.mkv", wantErr: errno.ErrFileNameIllegal},
		{name: "nested path", userUUID: "user-1", fileName: "a/b.mkv", wantErr: errno.ErrFileNameIllegal},
		{name: "hidden file", userUUID: "user-1", fileName: ".movie.mkv", wantErr: errno.ErrFileNameIllegal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SaveRawVideo(ctx, tt.userUUID, tt.fileName, strings.NewReader(""), 0)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMediaService_SaveRawSubtitleRequiresParentVideo(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t)

	_, err := f.svc.SaveRawSubtitle(ctx, "user-1", strings.NewReader("srt"), 3, "movie.srt", "movie.mkv")
	require.ErrorIs(t, err, errno.ErrParentVideoNotFound)
}

func TestMediaService_SaveRawSubtitleWithParent(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t)

	_, err := f.svc.SaveRawVideo(ctx, "user-1", "movie.mkv", strings.NewReader("bytes"), 5)
	require.NoError(t, err)

	sub, err := f.svc.SaveRawSubtitle(ctx, "user-1", strings.NewReader("srt"), 3, "movie.srt", "movie.mkv")
	require.NoError(t, err)
	require.Equal(t, "user-1/raw_subtitles/movie.srt", sub.Path)
	require.True(t, f.storage.has(sub.Path))
}

func TestMediaService_SaveRawSubtitleParentIsPerUser(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t)

	_, err := f.svc.SaveRawVideo(ctx, "user-1", "movie.mkv", strings.NewReader("bytes"), 5)
	require.NoError(t, err)

	// another user's video of the same name is not a valid parent
	_, err = f.svc.SaveRawSubtitle(ctx, "user-2", strings.NewReader("srt"), 3, "movie.srt", "movie.mkv")
	require.ErrorIs(t, err, errno.ErrParentVideoNotFound)
}

func TestMediaService_GetMediaEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t)

	media, err := f.svc.SaveRawVideo(ctx, "user-1", "movie.mkv", strings.NewReader("bytes"), 5)
	require.NoError(t, err)

	got, err := f.svc.GetMedia(ctx, "user-1", media.UUID)
	require.NoError(t, err)
	require.Equal(t, media.UUID, got.UUID)

	// foreign records look like they do not exist
	_, err = f.svc.GetMedia(ctx, "user-2", media.UUID)
	require.ErrorIs(t, err, errno.ErrRawMediaNotFound)
}

func TestMediaService_GetConverted(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t)

	media, err := f.svc.SaveRawVideo(ctx, "user-1", "movie.mkv", strings.NewReader("bytes"), 5)
	require.NoError(t, err)

	// nothing converted yet
	_, _, _, err = f.svc.GetConverted(ctx, "user-1", media.UUID)
	require.ErrorIs(t, err, errno.ErrConvertedMediaNotFound)

	converted, err := f.convRepo.GetOrCreateByRawMediaUUID(ctx, media.UUID)
	require.NoError(t, err)
	require.NoError(t, f.convRepo.ReplaceTrack(ctx, entity.NewConvertedTrack(converted.UUID, "p.mp4", "l", "eng")))

	got, tracks, subtitles, err := f.svc.GetConverted(ctx, "user-1", media.UUID)
	require.NoError(t, err)
	require.Equal(t, converted.UUID, got.UUID)
	require.Len(t, tracks, 1)
	require.Empty(t, subtitles)
}
