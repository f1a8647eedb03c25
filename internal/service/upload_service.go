package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/d60-Lab/social-graph/pkg/errs"
	"github.com/d60-Lab/social-graph/pkg/storage"
)

// UploadRequest image 为 base64，可带 data URL 前缀
type UploadRequest struct {
	Image       string `json:"image" binding:"required"`
	Type        string `json:"type"`
	ContentType string `json:"content_type"`
}

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type UploadService interface {
	Upload(ctx context.Context, userID string, req *UploadRequest) (*UploadResult, error)
}

var uploadTypePattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

type uploadService struct {
	store    storage.ObjectStore
	maxBytes int64
}

func NewUploadService(store storage.ObjectStore, maxBytes int64) UploadService {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &uploadService{store: store, maxBytes: maxBytes}
}

func (s *uploadService) Upload(ctx context.Context, userID string, req *UploadRequest) (*UploadResult, error) {
	data := req.Image
	if i := strings.IndexByte(data, ','); i >= 0 {
		data = data[i+1:]
	}
	if data == "" {
		return nil, ErrNoImage
	}
	if int64(base64.StdEncoding.DecodedLen(len(data))) > s.maxBytes+2 {
		return nil, ErrImageTooLarge
	}
	body, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrBadImage
	}
	if int64(len(body)) > s.maxBytes {
		return nil, ErrImageTooLarge
	}

	kind := strings.ToLower(req.Type)
	if kind == "" {
		kind = "post"
	}
	if !uploadTypePattern.MatchString(kind) {
		return nil, errs.InvalidArgument("invalid upload type")
	}
	ext, contentType := "jpg", "image/jpeg"
	if strings.HasSuffix(strings.ToLower(req.ContentType), "png") {
		ext, contentType = "png", "image/png"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	key := fmt.Sprintf("%s/%s_%s.%s", kind, userID, suffix, ext)

	url, err := s.store.Put(ctx, key, contentType, body)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "upload image", err)
	}
	return &UploadResult{URL: url, Key: key}, nil
}
