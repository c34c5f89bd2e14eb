package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/vo"
	"convert-service/pkg/errno"
)

func TestRawMediaRepository_CreateOrReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMediaRepository()

	first := entity.NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKindVideo)
	require.NoError(t, repo.CreateOrReplace(ctx, first))

	// same (user, path) again: the old row is replaced wholesale
	second := entity.NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKindVideo)
	require.NoError(t, repo.CreateOrReplace(ctx, second))

	list, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, second.UUID, list[0].UUID)

	_, err = repo.GetByUUID(ctx, first.UUID)
	require.ErrorIs(t, err, errno.ErrRawMediaNotFound)

	// a different path for the same user is a separate row
	other := entity.NewRawMedia("user-1", "other.mkv", "user-1/raw_videos/other.mkv", vo.MediaKindVideo)
	require.NoError(t, repo.CreateOrReplace(ctx, other))
	list, err = repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestRawMediaRepository_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMediaRepository()

	media := entity.NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKindVideo)
	require.NoError(t, repo.CreateOrReplace(ctx, media))

	require.NoError(t, repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatusInProgress))
	require.NoError(t, repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractSubtitles, vo.TaskStatusInProgress))
	require.NoError(t, repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractSubtitles, vo.TaskStatusCompleted))

	got, err := repo.GetByUUID(ctx, media.UUID)
	require.NoError(t, err)
	require.Equal(t, vo.TaskStatusInProgress, got.ExtractTracksStatus)
	require.Equal(t, vo.TaskStatusCompleted, got.ExtractSubtitlesStatus)

	err = repo.UpdateTaskStatus(ctx, "missing", vo.TaskExtractTracks, vo.TaskStatusFailed)
	require.ErrorIs(t, err, errno.ErrUpdateMissingRow)
}

func TestRawMediaRepository_UpdateTaskStatusEnforcesTransitions(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMediaRepository()

	media := entity.NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKindVideo)
	require.NoError(t, repo.CreateOrReplace(ctx, media))

	// pending cannot finish without going through in_progress
	err := repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatusCompleted)
	require.ErrorIs(t, err, errno.ErrTaskStatusIllegal)

	err = repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatus("bogus"))
	require.ErrorIs(t, err, errno.ErrTaskStatusIllegal)

	// a redelivered job writes in_progress again after a crash mid-run
	require.NoError(t, repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatusInProgress))
	require.NoError(t, repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatusInProgress))

	// a re-upload re-runs conversion over a completed task
	require.NoError(t, repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatusCompleted))
	require.NoError(t, repo.UpdateTaskStatus(ctx, media.UUID, vo.TaskExtractTracks, vo.TaskStatusInProgress))

	got, err := repo.GetByUUID(ctx, media.UUID)
	require.NoError(t, err)
	require.Equal(t, vo.TaskStatusInProgress, got.ExtractTracksStatus)
}

func TestRawMediaRepository_RejectsInvalidKind(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMediaRepository()

	media := entity.NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKind("archive"))
	err := repo.CreateOrReplace(ctx, media)
	require.ErrorIs(t, err, errno.ErrMediaKindIllegal)

	list, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestRawMediaRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMediaRepository()

	media := entity.NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKindVideo)
	require.NoError(t, repo.CreateOrReplace(ctx, media))

	got, err := repo.GetByUUID(ctx, media.UUID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByUUID(ctx, media.UUID)
	require.NoError(t, err)
	require.Equal(t, "movie.mkv", again.Name)
}

func TestConvertedMediaRepository_GetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewConvertedMediaRepository()

	first, err := repo.GetOrCreateByRawMediaUUID(ctx, "raw-1")
	require.NoError(t, err)
	second, err := repo.GetOrCreateByRawMediaUUID(ctx, "raw-1")
	require.NoError(t, err)
	require.Equal(t, first.UUID, second.UUID)

	other, err := repo.GetOrCreateByRawMediaUUID(ctx, "raw-2")
	require.NoError(t, err)
	require.NotEqual(t, first.UUID, other.UUID)
}

func TestConvertedMediaRepository_ReplaceTrackByLanguage(t *testing.T) {
	ctx := context.Background()
	repo := NewConvertedMediaRepository()

	aggregate, err := repo.GetOrCreateByRawMediaUUID(ctx, "raw-1")
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceTrack(ctx, entity.NewConvertedTrack(aggregate.UUID, "a_eng.mp4", "l1", "eng")))
	require.NoError(t, repo.ReplaceTrack(ctx, entity.NewConvertedTrack(aggregate.UUID, "a_fre.mp4", "l2", "fre")))
	// same language again replaces the first row
	replacement := entity.NewConvertedTrack(aggregate.UUID, "b_eng.mp4", "l3", "eng")
	require.NoError(t, repo.ReplaceTrack(ctx, replacement))

	tracks, err := repo.ListTracks(ctx, aggregate.UUID)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	for _, track := range tracks {
		if track.Language == "eng" {
			require.Equal(t, replacement.UUID, track.UUID)
			require.Equal(t, "b_eng.mp4", track.Path)
		}
	}
}

func TestConvertedMediaRepository_ReplaceSubtitleByPath(t *testing.T) {
	ctx := context.Background()
	repo := NewConvertedMediaRepository()

	aggregate, err := repo.GetOrCreateByRawMediaUUID(ctx, "raw-1")
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceSubtitle(ctx, entity.NewConvertedSubtitle(aggregate.UUID, "m_eng.vtt", "l1", "eng")))
	require.NoError(t, repo.ReplaceSubtitle(ctx, entity.NewConvertedSubtitle(aggregate.UUID, "m_eng.vtt", "l2", "eng")))

	subtitles, err := repo.ListSubtitles(ctx, aggregate.UUID)
	require.NoError(t, err)
	require.Len(t, subtitles, 1)
	require.Equal(t, "l2", subtitles[0].Link)
}

func TestWebhookSubscriptionRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewWebhookSubscriptionRepository()

	_, err := repo.GetByUserUUID(ctx, "user-1")
	require.ErrorIs(t, err, errno.ErrWebhookSubscriberUnknown)

	first := entity.NewWebhookSubscription("user-1", "https://example.com/a", nil)
	require.NoError(t, repo.Upsert(ctx, first))

	// the second upsert keeps the original identity and creation time
	second := entity.NewWebhookSubscription("user-1", "https://example.com/b", []string{"media.converted"})
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.GetByUserUUID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, first.UUID, got.UUID)
	require.Equal(t, first.CreatedAt, got.CreatedAt)
	require.Equal(t, "https://example.com/b", got.CallbackURL)
	require.Equal(t, []string{"media.converted"}, got.Events)
}
