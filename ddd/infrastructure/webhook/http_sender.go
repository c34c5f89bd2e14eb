package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"convert-service/ddd/domain/gateway"
	"convert-service/pkg/errno"
	"convert-service/pkg/logger"
)

// HTTPSender 基于net/http的回调投递实现。
// 非2xx响应与传输错误都视为可重试失败。
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender 创建投递器
func NewHTTPSender(timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSender{client: &http.Client{Timeout: timeout}}
}

var _ gateway.WebhookSender = (*HTTPSender)(nil)

func (s *HTTPSender) Send(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errno.ErrWebhookDelivery
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warnf("webhook post failed url=%s error=%s", url, err.Error())
		return errno.ErrWebhookDelivery
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warnf("webhook post rejected url=%s status=%d", url, resp.StatusCode)
		return errno.ErrWebhookDelivery
	}
	return nil
}
