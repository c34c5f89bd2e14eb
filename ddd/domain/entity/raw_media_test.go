package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"convert-service/ddd/domain/vo"
)

func TestNewRawMediaStartsPending(t *testing.T) {
	media := NewRawMedia("user-1", "movie.mkv", "user-1/raw_videos/movie.mkv", vo.MediaKindVideo)
	require.NotEmpty(t, media.UUID)
	require.Equal(t, vo.TaskStatusPending, media.ExtractTracksStatus)
	require.Equal(t, vo.TaskStatusPending, media.ExtractSubtitlesStatus)
}

func TestRawMediaBaseNameAndExt(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		wantBase string
		wantExt  string
	}{
		{name: "simple", fileName: "movie.mkv", wantBase: "movie", wantExt: "mkv"},
		{name: "dotted", fileName: "my.movie.v2.mkv", wantBase: "my.movie.v2", wantExt: "mkv"},
		{name: "no extension", fileName: "movie", wantBase: "movie", wantExt: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &RawMedia{Name: tt.fileName}
			require.Equal(t, tt.wantBase, m.BaseName())
			require.Equal(t, tt.wantExt, m.Ext())
		})
	}
}

func TestWebhookSubscriptionWants(t *testing.T) {
	all := NewWebhookSubscription("user-1", "https://example.com", nil)
	require.True(t, all.Wants(vo.EventMediaConverted))
	require.True(t, all.Wants(vo.EventMediaConvertFailed))

	some := NewWebhookSubscription("user-1", "https://example.com", []string{"media.converted"})
	require.True(t, some.Wants(vo.EventMediaConverted))
	require.False(t, some.Wants(vo.EventMediaConvertFailed))
}
