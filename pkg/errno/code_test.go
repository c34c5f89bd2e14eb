package errno

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermanent(t *testing.T) {
	require.False(t, IsPermanent(ErrMediaKindIllegal))
	require.True(t, IsPermanent(ErrMediaKindIllegal.Permanent()))

	// the marker survives wrapping
	wrapped := fmt.Errorf("convert: %w", ErrWebhookSubscriberUnknown.Permanent())
	require.True(t, IsPermanent(wrapped))

	require.False(t, IsPermanent(fmt.Errorf("plain error")))
	require.False(t, IsPermanent(nil))
}

func TestIsNotFound(t *testing.T) {
	require.True(t, IsNotFound(ErrNotFound))
	require.True(t, IsNotFound(ErrRawMediaNotFound))
	require.True(t, IsNotFound(ErrConvertedMediaNotFound))
	require.True(t, IsNotFound(ErrParentVideoNotFound))
	require.True(t, IsNotFound(ErrWebhookSubscriberUnknown))
	require.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrRawMediaNotFound)))

	require.False(t, IsNotFound(ErrStorageOperation))
	require.False(t, IsNotFound(nil))
}
