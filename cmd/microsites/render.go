package main

import (
	"fmt"
	"time"

	"microsites/internal/justsaying/render"
	"microsites/internal/justsaying/sayings"
)

// RenderCmd renders the first queued saying and prints GitHub Actions outputs.
type RenderCmd struct {
	CSVPath string `name:"csv-path" help:"Override justsaying.csv_path." env:"CSV_PATH"`
	OutDir  string `name:"out-dir" help:"Override justsaying.out_dir." env:"OUT_DIR"`
	Today   string `help:"Render as if today were this date (YYYY-MM-DD)."`
}

func (r *RenderCmd) Run(a *app) error {
	js := a.cfg.JustSaying
	if r.CSVPath != "" {
		js.CSVPath = r.CSVPath
	}
	if r.OutDir != "" {
		js.OutDir = r.OutDir
	}
	logger := a.logs.Logger("render")

	today := r.Today
	if today == "" {
		loc, err := time.LoadLocation(js.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}
		today = time.Now().In(loc).Format(sayings.DateLayout)
	} else if _, err := time.Parse(sayings.DateLayout, today); err != nil {
		return fmt.Errorf("invalid --today %q: %w", today, err)
	}

	rows, err := sayings.Open(js.CSVPath).Load()
	if err != nil {
		return err
	}
	row, ok := sayings.Pick(rows, today)
	if !ok {
		fmt.Fprintln(a.stderr, "no_row=true")
		fmt.Fprintln(a.stdout, "::notice title=Instagram::No queued row for today")
		return nil
	}

	renderer, err := render.New(js.Render, js.OutDir)
	if err != nil {
		return err
	}
	card, err := renderer.Render(row, today)
	if err != nil {
		return err
	}
	logger.Info("rendered card", "row_id", card.RowID, "path", card.ImageRelPath)

	fmt.Fprintf(a.stdout, "image_rel_path=%s\n", card.ImageRelPath)
	fmt.Fprintf(a.stdout, "caption<<EOF\n%s\nEOF\n", card.Caption)
	fmt.Fprintf(a.stdout, "row_id=%s\n", card.RowID)
	return nil
}
