package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"convert-service/pkg/errno"
)

func TestHTTPSender_Send(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewHTTPSender(time.Second)
	require.NoError(t, sender.Send(context.Background(), srv.URL, []byte(`{"event":"media.converted"}`)))
	require.Equal(t, `{"event":"media.converted"}`, string(gotBody))
	require.Equal(t, "application/json", gotContentType)
}

func TestHTTPSender_SendNon2xxIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sender := NewHTTPSender(time.Second)
	err := sender.Send(context.Background(), srv.URL, []byte(`{}`))
	require.ErrorIs(t, err, errno.ErrWebhookDelivery)
	require.False(t, errno.IsPermanent(err))
}

func TestHTTPSender_SendConnectionFailure(t *testing.T) {
	// grab a port that is guaranteed closed
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	sender := NewHTTPSender(time.Second)
	err := sender.Send(context.Background(), url, []byte(`{}`))
	require.ErrorIs(t, err, errno.ErrWebhookDelivery)
}
