package memory

import (
	"context"
	"sync"

	"convert-service/ddd/domain/entity"
	"convert-service/ddd/domain/repo"
	"convert-service/ddd/domain/vo"
	"convert-service/pkg/errno"
)

// RawMediaRepository 内存实现，语义与MySQL实现一致，用于测试与单机试跑
type RawMediaRepository struct {
	mu    sync.RWMutex
	items map[string]*entity.RawMedia // keyed by media uuid
}

// NewRawMediaRepository 创建内存仓储
func NewRawMediaRepository() *RawMediaRepository {
	return &RawMediaRepository{items: make(map[string]*entity.RawMedia)}
}

var _ repo.RawMediaRepository = (*RawMediaRepository)(nil)

func (r *RawMediaRepository) CreateOrReplace(_ context.Context, media *entity.RawMedia) error {
	if !media.Kind.IsValid() {
		return errno.ErrMediaKindIllegal
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for uuid, m := range r.items {
		if m.UserUUID == media.UserUUID && m.Path == media.Path {
			delete(r.items, uuid)
		}
	}
	cp := *media
	r.items[media.UUID] = &cp
	return nil
}

func (r *RawMediaRepository) GetByUUID(_ context.Context, mediaUUID string) (*entity.RawMedia, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[mediaUUID]
	if !ok {
		return nil, errno.ErrRawMediaNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *RawMediaRepository) GetByPath(_ context.Context, userUUID, path string) (*entity.RawMedia, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.items {
		if m.UserUUID == userUUID && m.Path == path {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errno.ErrRawMediaNotFound
}

func (r *RawMediaRepository) ListByUser(_ context.Context, userUUID string) ([]*entity.RawMedia, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.RawMedia
	for _, m := range r.items {
		if m.UserUUID == userUUID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *RawMediaRepository) UpdateTaskStatus(_ context.Context, mediaUUID string, task vo.ConversionTask, status vo.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[mediaUUID]
	if !ok {
		return errno.ErrUpdateMissingRow
	}
	current := m.ExtractTracksStatus
	if task == vo.TaskExtractSubtitles {
		current = m.ExtractSubtitlesStatus
	}
	if !status.IsValid() || !current.CanTransitionTo(status) {
		return errno.ErrTaskStatusIllegal
	}
	if task == vo.TaskExtractSubtitles {
		m.ExtractSubtitlesStatus = status
	} else {
		m.ExtractTracksStatus = status
	}
	return nil
}

func (r *RawMediaRepository) UpdateMetadata(_ context.Context, mediaUUID string, durationSeconds float64, streams []vo.MediaStream) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[mediaUUID]
	if !ok {
		return errno.ErrUpdateMissingRow
	}
	m.DurationSeconds = durationSeconds
	m.Streams = append([]vo.MediaStream(nil), streams...)
	return nil
}

// ConvertedMediaRepository 内存实现
type ConvertedMediaRepository struct {
	mu        sync.Mutex
	byRawUUID map[string]*entity.ConvertedMedia
	tracks    map[string][]*entity.ConvertedTrack    // keyed by converted media uuid
	subtitles map[string][]*entity.ConvertedSubtitle // keyed by converted media uuid
}

// NewConvertedMediaRepository 创建内存仓储
func NewConvertedMediaRepository() *ConvertedMediaRepository {
	return &ConvertedMediaRepository{
		byRawUUID: make(map[string]*entity.ConvertedMedia),
		tracks:    make(map[string][]*entity.ConvertedTrack),
		subtitles: make(map[string][]*entity.ConvertedSubtitle),
	}
}

var _ repo.ConvertedMediaRepository = (*ConvertedMediaRepository)(nil)

func (r *ConvertedMediaRepository) GetOrCreateByRawMediaUUID(_ context.Context, rawMediaUUID string) (*entity.ConvertedMedia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.byRawUUID[rawMediaUUID]; ok {
		cp := *m
		return &cp, nil
	}
	m := entity.NewConvertedMedia(rawMediaUUID)
	r.byRawUUID[rawMediaUUID] = m
	cp := *m
	return &cp, nil
}

func (r *ConvertedMediaRepository) GetByRawMediaUUID(_ context.Context, rawMediaUUID string) (*entity.ConvertedMedia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byRawUUID[rawMediaUUID]
	if !ok {
		return nil, errno.ErrConvertedMediaNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *ConvertedMediaRepository) ReplaceTrack(_ context.Context, track *entity.ConvertedTrack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tracks[track.ConvertedMediaUUID][:0]
	for _, t := range r.tracks[track.ConvertedMediaUUID] {
		if t.Language != track.Language {
			kept = append(kept, t)
		}
	}
	cp := *track
	r.tracks[track.ConvertedMediaUUID] = append(kept, &cp)
	return nil
}

func (r *ConvertedMediaRepository) ReplaceSubtitle(_ context.Context, subtitle *entity.ConvertedSubtitle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.subtitles[subtitle.ConvertedMediaUUID][:0]
	for _, s := range r.subtitles[subtitle.ConvertedMediaUUID] {
		if s.Path != subtitle.Path {
			kept = append(kept, s)
		}
	}
	cp := *subtitle
	r.subtitles[subtitle.ConvertedMediaUUID] = append(kept, &cp)
	return nil
}

func (r *ConvertedMediaRepository) ListTracks(_ context.Context, convertedMediaUUID string) ([]*entity.ConvertedTrack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*entity.ConvertedTrack, 0, len(r.tracks[convertedMediaUUID]))
	for _, t := range r.tracks[convertedMediaUUID] {
		cp := *t
		list = append(list, &cp)
	}
	return list, nil
}

func (r *ConvertedMediaRepository) ListSubtitles(_ context.Context, convertedMediaUUID string) ([]*entity.ConvertedSubtitle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*entity.ConvertedSubtitle, 0, len(r.subtitles[convertedMediaUUID]))
	for _, s := range r.subtitles[convertedMediaUUID] {
		cp := *s
		list = append(list, &cp)
	}
	return list, nil
}

// WebhookSubscriptionRepository 内存实现
type WebhookSubscriptionRepository struct {
	mu    sync.RWMutex
	items map[string]*entity.WebhookSubscription // keyed by user uuid
}

// NewWebhookSubscriptionRepository 创建内存仓储
func NewWebhookSubscriptionRepository() *WebhookSubscriptionRepository {
	return &WebhookSubscriptionRepository{items: make(map[string]*entity.WebhookSubscription)}
}

var _ repo.WebhookSubscriptionRepository = (*WebhookSubscriptionRepository)(nil)

func (r *WebhookSubscriptionRepository) Upsert(_ context.Context, sub *entity.WebhookSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	if existing, ok := r.items[sub.UserUUID]; ok {
		cp.UUID = existing.UUID
		cp.CreatedAt = existing.CreatedAt
	}
	r.items[sub.UserUUID] = &cp
	return nil
}

func (r *WebhookSubscriptionRepository) GetByUserUUID(_ context.Context, userUUID string) (*entity.WebhookSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[userUUID]
	if !ok {
		return nil, errno.ErrWebhookSubscriberUnknown
	}
	cp := *s
	return &cp, nil
}
