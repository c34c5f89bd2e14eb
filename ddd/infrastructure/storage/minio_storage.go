package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"convert-service/ddd/domain/gateway"
	"convert-service/internal/resource"
	"convert-service/pkg/errno"
	"convert-service/pkg/logger"
)

// MinioStorage MinIO存储实现
type MinioStorage struct {
	minioResource *resource.MinioResource
	publicBase    string
}

// NewMinioStorage 创建MinIO存储实例
func NewMinioStorage(minioResource *resource.MinioResource, publicBase string) gateway.StorageGateway {
	return &MinioStorage{
		minioResource: minioResource,
		publicBase:    strings.TrimSuffix(publicBase, "/"),
	}
}

// Upload 流式上传对象；size 未知时传-1，由客户端分片
func (s *MinioStorage) Upload(ctx context.Context, r io.Reader, size int64, objectKey, contentType string) (gateway.StoredObject, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	_, err := client.PutObject(ctx, bucketName, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload object to MinIO", map[string]interface{}{
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return gateway.StoredObject{}, errno.ErrStorageOperation
	}

	logger.Info("Object uploaded successfully", map[string]interface{}{
		"object_key": objectKey,
		"size":       size,
	})

	return gateway.StoredObject{Path: objectKey, Link: s.LinkFor(objectKey)}, nil
}

// Download 打开对象读取流，由调用方关闭
func (s *MinioStorage) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	obj, err := client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		logger.Error("Failed to open object from MinIO", map[string]interface{}{
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return nil, errno.ErrStorageOperation
	}
	// GetObject is lazy, surface missing objects before handing the stream out
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		logger.Error("Failed to stat object from MinIO", map[string]interface{}{
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return nil, errno.ErrStorageOperation
	}
	return obj, nil
}

// LinkFor 拼接对象的公开访问地址
func (s *MinioStorage) LinkFor(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.minioResource.GetBucketName(), objectKey)
}
