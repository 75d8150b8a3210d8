// fenceview previews a fenced ```html block from a document.
//
// Usage:
//
//	fenceview [flags] [file]
//
// With no file, or "-", the document is read from stdin.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mordant23/fenceview"
	"github.com/mordant23/fenceview/internal/logging"
)

const (
	ExitSuccess     = 0
	ExitConfigError = 1
	ExitSourceError = 2
	ExitRenderError = 3
	ExitInterrupted = 130
)

var (
	errConfig = errors.New("config")
	errSource = errors.New("source")
	errRender = errors.New("render")
)

// version is set at build time via -ldflags.
var version = "dev"

type CLI struct {
	ConfigPath string
	Renderer   string
	Tag        string
	Pick       int
	Output     string
	LogLevel   string
	LogFormat  string
	Source     string
}

// Deps holds injectable dependencies for the app.
type Deps struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Clipboard  func(cfg *Config) ClipboardWriter
	Open       func(cfg *Config) func(url string) error
	Screenshot func(cfg *Config) fenceview.Renderer
	IsTTY      func() bool
	TermWidth  func() int
}

func newRootCmd(run func(ctx context.Context, cli *CLI) error) *cobra.Command {
	cli := &CLI{}

	cmd := &cobra.Command{
		Use:   "fenceview [flags] [file]",
		Short: "Preview a fenced ```html block from a document",
		Long: "fenceview collects the ```html fenced blocks in a document and renders one.\n" +
			"A single block is rendered directly; with several you are asked which one.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cli.Source = args[0]
			}
			if cli.Pick < 0 {
				return fmt.Errorf("%w: --pick must be positive, got %d", errConfig, cli.Pick)
			}
			return run(cmd.Context(), cli)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cli.ConfigPath, "config", "c", "", "Use alternate config file")
	f.StringVarP(&cli.Renderer, "renderer", "r", "", "How to show the block: browser, screenshot, stdout, clipboard")
	f.StringVarP(&cli.Tag, "tag", "t", "", "Fence tag to extract (default html)")
	f.IntVarP(&cli.Pick, "pick", "p", 0, "Take block N without prompting")
	f.StringVarP(&cli.Output, "output", "o", "", "Screenshot output path")
	f.StringVar(&cli.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&cli.LogFormat, "log-format", "", "Log format: text or json")

	return cmd
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// resolveConfig layers file, environment and flags.
func resolveConfig(cli *CLI) (*Config, error) {
	configPath := cli.ConfigPath
	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigPath()
	}
	configPath = ExpandPath(configPath)

	cfg, err := loadConfigOrDefault(configPath, explicit)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w file not found: %s", errConfig, configPath)
		}
		return nil, fmt.Errorf("invalid %w: %v", errConfig, err)
	}

	cfg.ApplyEnv()

	if cli.Renderer != "" {
		cfg.Renderer = cli.Renderer
	}
	if cli.Tag != "" {
		cfg.Tag = cli.Tag
	}
	if cli.Output != "" {
		cfg.ScreenshotPath = cli.Output
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.LogFormat = cli.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %w: %v", errConfig, err)
	}
	return cfg, nil
}

func readSource(source string, stdin io.Reader) (string, error) {
	if source == "" || source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("%w: read stdin: %v", errSource, err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(ExpandPath(source))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errSource, err)
	}
	return string(data), nil
}

func fromStdin(source string) bool {
	return source == "" || source == "-"
}

func newChooser(cli *CLI, cfg *Config, deps *Deps, blocks fenceview.Blocks) fenceview.Chooser {
	switch {
	case cli.Pick > 0:
		return PickChooser{Pick: cli.Pick}
	case deps.IsTTY() && !fromStdin(cli.Source):
		return NewPromptChooser(deps.Stdin, deps.Stderr, cfg, blocks, deps.TermWidth())
	default:
		return NoTTYChooser{Tag: cfg.Tag}
	}
}

func newRenderer(cfg *Config, deps *Deps) fenceview.Renderer {
	switch cfg.Renderer {
	case RendererStdout:
		return WriterRenderer{W: deps.Stdout}
	case RendererClipboard:
		return ClipboardRenderer{Clipboard: deps.Clipboard(cfg), Out: deps.Stderr}
	case RendererScreenshot:
		return withSpinner(deps.Screenshot(cfg), deps.Stderr, "Rendering...", deps.IsTTY())
	default:
		return &BrowserRenderer{
			Open:    deps.Open(cfg),
			Timeout: cfg.BrowserTimeout,
			Log:     logging.New("browser"),
		}
	}
}

func runWithDeps(ctx context.Context, cli *CLI, deps *Deps) error {
	cfg, err := resolveConfig(cli)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Init(level, cfg.LogFormat, deps.Stderr)
	log := logging.New("cli")

	text, err := readSource(cli.Source, deps.Stdin)
	if err != nil {
		return err
	}

	blocks := fenceview.NewExtractor(cfg.Tag).Extract(text)
	if cli.Pick > 0 && len(blocks) > 0 && cli.Pick > len(blocks) {
		return fmt.Errorf("%w: --pick %d out of range (1-%d)", errConfig, cli.Pick, len(blocks))
	}

	r := loggedRenderer(newRenderer(cfg, deps), log, cfg.Renderer, len(blocks))
	if err := fenceview.RunBlocks(ctx, blocks, newChooser(cli, cfg, deps, blocks), r); err != nil {
		if errors.Is(err, errConfig) || errors.Is(err, errRender) {
			return err
		}
		return fmt.Errorf("%w: %w", errRender, err)
	}
	return nil
}

// loggedRenderer notes the chosen block before handing it to r.
func loggedRenderer(r fenceview.Renderer, log *slog.Logger, name string, blocks int) fenceview.Renderer {
	return fenceview.RendererFunc(func(ctx context.Context, markup string) error {
		log.Debug("block chosen",
			slog.Int("blocks", blocks),
			slog.Int("bytes", len(markup)),
			slog.String("renderer", name))
		return r.Render(ctx, markup)
	})
}

func run(ctx context.Context, cli *CLI) error {
	deps := &Deps{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Clipboard: func(cfg *Config) ClipboardWriter {
			return NewClipboardWriter(DetectClipboardCmd(cfg.ClipboardCmd))
		},
		Open: func(cfg *Config) func(string) error {
			return NewOpener(DetectOpenCmd(cfg.OpenCmd))
		},
		Screenshot: NewScreenshotRenderer,
		IsTTY:      isTTY,
		TermWidth:  termWidth,
	}

	return runWithDeps(ctx, cli, deps)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, errConfig):
		return ExitConfigError
	case errors.Is(err, errSource):
		return ExitSourceError
	case errors.Is(err, errRender):
		return ExitRenderError
	default:
		return ExitConfigError
	}
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		os.Exit(ExitInterrupted)
	}()

	cmd := newRootCmd(run)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
