package service

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-graph/pkg/errs"
)

type memStore struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (m *memStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.objects == nil {
		m.objects, m.types = map[string][]byte{}, map[string]string{}
	}
	m.objects[key] = body
	m.types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func TestUploadImage(t *testing.T) {
	store := &memStore{}
	svc := NewUploadService(store, 1024)
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png"))

	res, err := svc.Upload(context.Background(), "u1", &UploadRequest{
		Image:       "data:image/png;base64," + payload,
		Type:        "avatar",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^avatar/u1_[0-9a-f]{8}\.png$`), res.Key)
	assert.Equal(t, "https://cdn.test/"+res.Key, res.URL)
	assert.Equal(t, []byte("fake-png"), store.objects[res.Key])
	assert.Equal(t, "image/png", store.types[res.Key])

	res, err = svc.Upload(context.Background(), "u1", &UploadRequest{Image: payload})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^post/u1_[0-9a-f]{8}\.jpg$`), res.Key)
}

func TestUploadRejects(t *testing.T) {
	svc := NewUploadService(&memStore{}, 4)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "u1", &UploadRequest{Image: "data:image/png;base64,"})
	require.ErrorIs(t, err, ErrNoImage)

	_, err = svc.Upload(ctx, "u1", &UploadRequest{Image: "!!!"})
	require.ErrorIs(t, err, ErrBadImage)

	big := base64.StdEncoding.EncodeToString([]byte("0123456789"))
	_, err = svc.Upload(ctx, "u1", &UploadRequest{Image: big})
	require.ErrorIs(t, err, ErrImageTooLarge)

	_, err = svc.Upload(ctx, "u1", &UploadRequest{Image: base64.StdEncoding.EncodeToString([]byte("ab")), Type: "../etc"})
	assert.True(t, errs.IsKind(err, errs.KindInvalidArgument))

	failing := NewUploadService(&memStore{err: errors.New("s3 down")}, 1024)
	_, err = failing.Upload(ctx, "u1", &UploadRequest{Image: base64.StdEncoding.EncodeToString([]byte("ab"))})
	assert.True(t, errs.IsKind(err, errs.KindInternal))
}
