package assets

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microsites/internal/config"
)

type fakePutter struct {
	bucket, key, file, contentType string
	err                            error
}

func (f *fakePutter) FPutObject(_ context.Context, bucket, key, file string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.bucket, f.key, f.file, f.contentType = bucket, key, file, opts.ContentType
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	return minio.UploadInfo{Bucket: bucket, Key: key}, nil
}

func TestGitHubRawURL(t *testing.T) {
	h := &GitHubRaw{Owner: "me", Repo: "sayings", Branch: "main"}
	got, err := h.URL(context.Background(), "public/instagram/2024-05-03-7.png")
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/me/sayings/main/public/instagram/2024-05-03-7.png", got)

	_, err = (&GitHubRaw{Repo: "sayings"}).URL(context.Background(), "x.png")
	assert.Error(t, err)
}

func TestS3UploadsAndBuildsURL(t *testing.T) {
	put := &fakePutter{}
	h := newS3(put, config.S3Config{Bucket: "cards", Prefix: "ig/", PublicBaseURL: "https://cdn.example.com/cards/"})

	got, err := h.URL(context.Background(), "public/instagram/2024-05-03-7.png")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/cards/ig/public/instagram/2024-05-03-7.png", got)
	assert.Equal(t, "cards", put.bucket)
	assert.Equal(t, "ig/public/instagram/2024-05-03-7.png", put.key)
	assert.Equal(t, "public/instagram/2024-05-03-7.png", put.file)
	assert.Equal(t, "image/png", put.contentType)
}

func TestS3UploadFailure(t *testing.T) {
	h := newS3(&fakePutter{err: errors.New("denied")}, config.S3Config{Bucket: "cards", PublicBaseURL: "https://cdn"})
	_, err := h.URL(context.Background(), "a.png")
	assert.ErrorContains(t, err, "denied")
}

func TestNewSelectsHost(t *testing.T) {
	cfg := config.Default().JustSaying.Assets
	h, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &GitHubRaw{}, h)

	cfg.Type = "s3"
	cfg.S3 = config.S3Config{Endpoint: "localhost:9000", Bucket: "cards", PublicBaseURL: "http://localhost:9000/cards"}
	h, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &S3{}, h)

	cfg.Type = "ftp"
	_, err = New(cfg)
	assert.Error(t, err)
}
