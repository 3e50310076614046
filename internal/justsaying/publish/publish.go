// Package publish posts a rendered card to Instagram and marks its row as published.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"microsites/internal/justsaying/assets"
	"microsites/internal/justsaying/instagram"
	"microsites/internal/justsaying/sayings"
)

// ErrMissingInput is returned when the image path, caption or row id is empty.
var ErrMissingInput = errors.New("missing IMAGE_REL_PATH / CAPTION / ROW_ID")

// Stage identifies where a publish run failed.
type Stage int

const (
	StageInput Stage = iota + 1
	StageCreate
	StageCreationID
	StagePublish
	StageAsset
	StageStatus
)

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StageCreate:
		return "create media"
	case StageCreationID:
		return "creation id"
	case StagePublish:
		return "publish"
	case StageAsset:
		return "asset"
	case StageStatus:
		return "status"
	}
	return "unknown"
}

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// ExitCode maps an error from Publish to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var se *StageError
	if !errors.As(err, &se) {
		return 1
	}
	switch se.Stage {
	case StageInput:
		return 1
	case StageCreate:
		return 2
	case StageCreationID:
		return 3
	case StagePublish:
		return 4
	}
	return 5
}

// Post is one rendered card waiting to be published.
type Post struct {
	ImageRelPath string
	Caption      string
	RowID        string
}

// Result reports the ids returned by the Graph API.
type Result struct {
	ImageURL   string
	CreationID string
	MediaID    string
}

// MediaClient is the subset of the Graph API used here.
type MediaClient interface {
	CreateMedia(ctx context.Context, imageURL, caption string) (string, error)
	Publish(ctx context.Context, creationID string) (string, error)
}

// StatusWriter updates a row's status.
type StatusWriter interface {
	SetStatus(id, status string) (bool, error)
}

var (
	_ MediaClient  = (*instagram.Client)(nil)
	_ StatusWriter = (*sayings.Store)(nil)
)

// Publisher chains asset hosting, the Graph API and the sayings store.
type Publisher struct {
	assets assets.Host
	media  MediaClient
	store  StatusWriter
	logger *slog.Logger
}

// New constructs a Publisher.
func New(host assets.Host, media MediaClient, store StatusWriter, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{assets: host, media: media, store: store, logger: logger}
}

// Publish runs the steps in order and stops at the first failure.
func (p *Publisher) Publish(ctx context.Context, post Post) (Result, error) {
	post.Caption = strings.TrimSpace(post.Caption)
	if post.ImageRelPath == "" || post.Caption == "" || post.RowID == "" {
		return Result{}, &StageError{Stage: StageInput, Err: ErrMissingInput}
	}

	var res Result
	var err error
	if res.ImageURL, err = p.assets.URL(ctx, post.ImageRelPath); err != nil {
		return res, &StageError{Stage: StageAsset, Err: err}
	}
	p.logger.Info("asset ready", "url", res.ImageURL, "row_id", post.RowID)

	if res.CreationID, err = p.media.CreateMedia(ctx, res.ImageURL, post.Caption); err != nil {
		if errors.Is(err, instagram.ErrNoCreationID) {
			return res, &StageError{Stage: StageCreationID, Err: err}
		}
		return res, &StageError{Stage: StageCreate, Err: err}
	}

	if res.MediaID, err = p.media.Publish(ctx, res.CreationID); err != nil {
		return res, &StageError{Stage: StagePublish, Err: err}
	}
	p.logger.Info("published", "creation_id", res.CreationID, "media_id", res.MediaID)

	changed, err := p.store.SetStatus(post.RowID, sayings.StatusPublished)
	if err != nil {
		return res, &StageError{Stage: StageStatus, Err: err}
	}
	if !changed {
		p.logger.Warn("row not found; status left unchanged", "row_id", post.RowID)
	}
	return res, nil
}
