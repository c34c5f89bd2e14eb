package entity

import (
	"encoding/json"

	"convert-service/ddd/domain/vo"
)

// Job payloads live only on the queue transport; they are never persisted.

// MetadataJob asks the pipeline to probe duration and stream layout of a raw media.
type MetadataJob struct {
	RawMediaUUID string `json:"raw_media_uuid"`
}

// ConvertJob asks the pipeline to derive converted artifacts for a raw media.
type ConvertJob struct {
	RawMediaUUID string       `json:"raw_media_uuid"`
	Kind         vo.MediaKind `json:"kind"`
}

// WebhookEvent is the delivery request for one subscriber notification.
// The callback URL is resolved by the delivery handler, not at enqueue time,
// so an unknown subscriber surfaces inside the worker as a permanent failure.
type WebhookEvent struct {
	Event    vo.EventKind    `json:"event"`
	UserUUID string          `json:"user_uuid"`
	Error    string          `json:"error,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}
