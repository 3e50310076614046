// Command microsites serves the site tools over HTTP and runs the justsaying pipeline.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"microsites/internal/config"
	"microsites/internal/justsaying/publish"
	"microsites/internal/logging"
)

// CLI is the kong command tree. Flags override the config file; env vars fill in flags.
type CLI struct {
	Config   string `help:"Path to YAML config file." short:"c" type:"path" env:"MICROSITES_CONFIG"`
	LogLevel string `help:"Override logging.level (trace, debug, info, warn, error)." env:"LOG_LEVEL"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the HTTP dispatcher."`
	Render  RenderCmd  `cmd:"" help:"Render today's queued saying to a card."`
	Publish PublishCmd `cmd:"" help:"Publish a rendered card to Instagram."`
}

type app struct {
	cfg    *config.Config
	logs   *logging.Factory
	stdout io.Writer
	stderr io.Writer
}

func (c *CLI) newApp(stdout, stderr io.Writer) (*app, error) {
	cfg := config.Default()
	if c.Config != "" {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		logs:   logging.NewFactory(stderr, level, cfg.Logging.Format),
		stdout: stdout,
		stderr: stderr,
	}, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("microsites"),
		kong.Description("Site tool dispatcher and quote-of-the-day pipeline."),
		kong.UsageOnError(),
	)

	a, err := cli.newApp(os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := ctx.Run(a); err != nil {
		a.logs.Logger("main").Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(publish.ExitCode(err))
	}
}
