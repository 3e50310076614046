// Package assets turns a rendered card's relative path into a public URL.
package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"microsites/internal/config"
)

const rawGitHubBase = "https://raw.githubusercontent.com"

// Host resolves the public URL for a file already rendered at relPath.
type Host interface {
	URL(ctx context.Context, relPath string) (string, error)
}

// New returns the Host selected by cfg.Type.
func New(cfg config.AssetsConfig) (Host, error) {
	switch cfg.Type {
	case "", "github":
		return &GitHubRaw{Owner: cfg.GitHub.Owner, Repo: cfg.GitHub.Repo, Branch: cfg.GitHub.Branch}, nil
	case "s3":
		return NewS3(cfg.S3)
	}
	return nil, fmt.Errorf("unknown assets type %q", cfg.Type)
}

// GitHubRaw serves files that were pushed to a GitHub repository.
type GitHubRaw struct {
	Owner  string
	Repo   string
	Branch string
}

// URL returns the raw.githubusercontent.com address of relPath. Nothing is uploaded.
func (g *GitHubRaw) URL(_ context.Context, relPath string) (string, error) {
	if g.Owner == "" || g.Repo == "" {
		return "", errors.New("github asset host needs owner and repo")
	}
	branch := g.Branch
	if branch == "" {
		branch = "main"
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", rawGitHubBase, g.Owner, g.Repo, branch, cleanRel(relPath)), nil
}

type objectPutter interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3 uploads cards to an S3-compatible bucket that is readable at PublicBaseURL.
type S3 struct {
	client        objectPutter
	bucket        string
	prefix        string
	publicBaseURL string
}

// NewS3 builds a minio client from cfg.
func NewS3(cfg config.S3Config) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return newS3(client, cfg), nil
}

func newS3(client objectPutter, cfg config.S3Config) *S3 {
	return &S3{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        cfg.Prefix,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Key returns the object name used for relPath.
func (s *S3) Key(relPath string) string { return s.prefix + cleanRel(relPath) }

// URL uploads the local file at relPath and returns its public address.
func (s *S3) URL(ctx context.Context, relPath string) (string, error) {
	key := s.Key(relPath)
	if _, err := s.client.FPutObject(ctx, s.bucket, key, relPath, minio.PutObjectOptions{ContentType: "image/png"}); err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, s.bucket, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func cleanRel(relPath string) string {
	return strings.TrimLeft(strings.ReplaceAll(relPath, "\\", "/"), "/")
}
