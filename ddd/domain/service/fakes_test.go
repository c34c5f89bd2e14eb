package service

import (
	"bytes"
	"context"
	"io"
	"sync"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/vo"
	"convert-service/pkg/errno"
)

// fakeStorage 内存对象存储，链接规则与MinIO网关一致：base/objectKey
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

var _ gateway.StorageGateway = (*fakeStorage)(nil)

func (s *fakeStorage) Upload(_ context.Context, r io.Reader, _ int64, objectKey, _ string) (gateway.StoredObject, error) {
	if s.uploadErr != nil {
		return gateway.StoredObject{}, s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return gateway.StoredObject{}, err
	}
	s.mu.Lock()
	s.objects[objectKey] = data
	s.mu.Unlock()
	return gateway.StoredObject{Path: objectKey, Link: s.LinkFor(objectKey)}, nil
}

func (s *fakeStorage) Download(_ context.Context, objectKey string) (io.ReadCloser, error) {
	s.mu.Lock()
	data, ok := s.objects[objectKey]
	s.mu.Unlock()
	if !ok {
		return nil, errno.ErrStorageOperation
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) LinkFor(objectKey string) string {
	return "http://storage.local/" + objectKey
}

func (s *fakeStorage) has(objectKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectKey]
	return ok
}

// streamSpec 一条待抽取的流
type streamSpec struct {
	language string
	data     string
}

// fakeProcessor 转码网关替身：抽取按脚本返回，转换原样透传输入。
type fakeProcessor struct {
	tracks    []streamSpec
	subtitles []streamSpec

	probeInfo *gateway.MediaInfo
	probeErr  error

	extractTracksErr    error
	extractSubtitlesErr error
	convertErr          error
}

var _ gateway.MediaProcessor = (*fakeProcessor)(nil)

func (p *fakeProcessor) Probe(_ context.Context, _ string) (*gateway.MediaInfo, error) {
	if p.probeErr != nil {
		return nil, p.probeErr
	}
	if p.probeInfo != nil {
		return p.probeInfo, nil
	}
	return &gateway.MediaInfo{}, nil
}

func (p *fakeProcessor) ExtractTracks(_ context.Context, _ string) ([]gateway.TrackStream, error) {
	if p.extractTracksErr != nil {
		return nil, p.extractTracksErr
	}
	return toStreams(p.tracks), nil
}

func (p *fakeProcessor) ExtractSubtitles(_ context.Context, _ string) ([]gateway.TrackStream, error) {
	if p.extractSubtitlesErr != nil {
		return nil, p.extractSubtitlesErr
	}
	return toStreams(p.subtitles), nil
}

func (p *fakeProcessor) ConvertToMP4(_ context.Context, r io.Reader, _ string) (io.ReadCloser, error) {
	if p.convertErr != nil {
		return nil, p.convertErr
	}
	return passThrough(r)
}

func (p *fakeProcessor) ConvertToVTT(_ context.Context, r io.Reader) (io.ReadCloser, error) {
	if p.convertErr != nil {
		return nil, p.convertErr
	}
	return passThrough(r)
}

func toStreams(specs []streamSpec) []gateway.TrackStream {
	streams := make([]gateway.TrackStream, 0, len(specs))
	for _, spec := range specs {
		streams = append(streams, gateway.TrackStream{
			Language: spec.language,
			Stream:   io.NopCloser(bytes.NewReader([]byte(spec.data))),
		})
	}
	return streams
}

func passThrough(r io.Reader) (io.ReadCloser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// captureNotifier 记录入队的webhook事件
type captureNotifier struct {
	mu     sync.Mutex
	events []*entity.WebhookEvent
}

var _ Notifier = (*captureNotifier)(nil)

func (n *captureNotifier) Enqueue(_ context.Context, event *entity.WebhookEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := *event
	n.events = append(n.events, &cp)
	return nil
}

func (n *captureNotifier) all() []*entity.WebhookEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*entity.WebhookEvent(nil), n.events...)
}

// capturePublisher 记录发布到事件总线的事件类型
type capturePublisher struct {
	mu     sync.Mutex
	events []vo.EventKind
}

var _ gateway.EventPublisher = (*capturePublisher)(nil)

func (p *capturePublisher) Publish(_ context.Context, event vo.EventKind, _ string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// captureSender 记录webhook投递请求
type captureSender struct {
	mu     sync.Mutex
	urls   []string
	bodies [][]byte
	err    error
}

var _ gateway.WebhookSender = (*captureSender)(nil)

func (s *captureSender) Send(_ context.Context, url string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.urls = append(s.urls, url)
	s.bodies = append(s.bodies, append([]byte(nil), body...))
	return nil
}
