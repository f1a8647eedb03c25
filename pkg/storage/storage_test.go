package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	fp := &fakePutter{}
	store := NewS3Store(fp, "files", "https://cdn.example.com/bucket/")

	url, err := store.Put(context.Background(), "post/u1_abcd1234.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/bucket/post/u1_abcd1234.png", url)
	assert.Equal(t, "files", *fp.input.Bucket)
	assert.Equal(t, "post/u1_abcd1234.png", *fp.input.Key)
	assert.Equal(t, "image/png", *fp.input.ContentType)
	assert.Equal(t, []byte("png"), fp.body)
}

func TestS3StorePutError(t *testing.T) {
	store := NewS3Store(&fakePutter{err: errors.New("denied")}, "files", "https://cdn")
	_, err := store.Put(context.Background(), "k", "image/jpeg", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}
