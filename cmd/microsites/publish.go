package main

import (
	"context"
	"fmt"

	"microsites/internal/justsaying/assets"
	"microsites/internal/justsaying/instagram"
	"microsites/internal/justsaying/publish"
	"microsites/internal/justsaying/sayings"
)

// PublishCmd posts a rendered card and marks its row as published.
type PublishCmd struct {
	CSVPath   string `name:"csv-path" help:"Override justsaying.csv_path." env:"CSV_PATH"`
	RepoOwner string `name:"repo-owner" help:"Override justsaying.assets.github.owner." env:"REPO_OWNER"`
	RepoName  string `name:"repo-name" help:"Override justsaying.assets.github.repo." env:"REPO_NAME"`
	Branch    string `help:"Override justsaying.assets.github.branch." env:"BRANCH"`
	IGUserID  string `name:"ig-user-id" help:"Override justsaying.instagram.user_id." env:"IG_USER_ID"`
	PageToken string `name:"page-token" help:"Override justsaying.instagram.page_token." env:"PAGE_TOKEN"`

	ImageRelPath string `name:"image-rel-path" help:"Card path relative to the repository root." env:"IMAGE_REL_PATH"`
	Caption      string `help:"Post caption." env:"CAPTION"`
	RowID        string `name:"row-id" help:"Row id to mark as published." env:"ROW_ID"`
}

func (p *PublishCmd) Run(a *app) error {
	js := a.cfg.JustSaying
	override(&js.CSVPath, p.CSVPath)
	override(&js.Assets.GitHub.Owner, p.RepoOwner)
	override(&js.Assets.GitHub.Repo, p.RepoName)
	override(&js.Assets.GitHub.Branch, p.Branch)
	override(&js.Instagram.UserID, p.IGUserID)
	override(&js.Instagram.PageToken, p.PageToken)

	post := publish.Post{ImageRelPath: p.ImageRelPath, Caption: p.Caption, RowID: p.RowID}
	if post.ImageRelPath == "" || post.RowID == "" {
		return &publish.StageError{Stage: publish.StageInput, Err: publish.ErrMissingInput}
	}

	cfg := *a.cfg
	cfg.JustSaying = js
	if err := cfg.ValidatePublish(); err != nil {
		return &publish.StageError{Stage: publish.StageInput, Err: err}
	}

	host, err := assets.New(js.Assets)
	if err != nil {
		return &publish.StageError{Stage: publish.StageAsset, Err: err}
	}
	pub := publish.New(
		host,
		instagram.New(js.Instagram, nil),
		sayings.Open(js.CSVPath),
		a.logs.Logger("publish"),
	)
	if _, err := pub.Publish(context.Background(), post); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "published=true")
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
