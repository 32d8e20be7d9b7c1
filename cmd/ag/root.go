package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"ag/internal/agent"
	"ag/internal/cli"
	"ag/internal/config"
	"ag/internal/image"
	"ag/internal/logger"
	"ag/internal/screenshot"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type options struct {
	text   string
	image  bool
	path   string
	prompt string
	start  string

	apiKey         string
	baseURL        string
	model          string
	configPath     string
	screenshotPath string
	temperature    float32
	maxTokens      int
	noStream       bool
	verbose        bool
	noColor        bool
}

// run executes the command and maps its outcome to an exit code.
func run(ctx context.Context, args []string, a *app) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(a.stderr, err)
	}
	return exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ag",
		Short: "AI chat and image analysis from the terminal",
		Long: `ag sends a text prompt, a screenshot or an image file to an
OpenAI-compatible chat completion API and streams the answer back.

With no options it starts an interactive session.

Configuration is read from flags, then the API_KEY, BASE_URL and MODEL
environment variables (a .env file in the working directory is loaded),
then ag.yaml.`,
		Example: `  ag -t "introduce yourself"        # text prompt
  ag -i                             # analyze a screenshot
  ag -p /path/to/image.png          # analyze an image file
  ag -t "describe this" -i          # screenshot with a prompt
  ag --prompt "You are a doctor."   # custom system prompt
  ag --start "Hi, ask me anything"  # custom interactive greeting`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unexpected argument %q; pass the prompt with -t", args[0])
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssistant(cmd, a, opts)
		},
	}

	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := cmd.Flags()
	f.StringVarP(&opts.text, "text", "t", "", "Text prompt to send to the AI")
	f.BoolVarP(&opts.image, "image", "i", false, "Analyze a screenshot")
	f.StringVarP(&opts.path, "path", "p", "", "Path of an image to analyze")
	f.StringVar(&opts.prompt, "prompt", "", "Override the system prompt for text and image requests")
	f.StringVar(&opts.start, "start", "", "Override the interactive mode welcome line")

	f.StringVar(&opts.apiKey, "api-key", "", "API key (default $API_KEY)")
	f.StringVar(&opts.baseURL, "base-url", "", "API base URL (default $BASE_URL)")
	f.StringVar(&opts.model, "model", "", "Model name (default $MODEL)")
	f.StringVar(&opts.configPath, "config", "", "Config file (default ./ag.yaml or ~/.config/ag/ag.yaml)")
	f.StringVar(&opts.screenshotPath, "screenshot-path", "", "Where to save the screenshot (default "+screenshot.DefaultPath+")")
	f.Float32Var(&opts.temperature, "temperature", 0, "Sampling temperature (0-2)")
	f.IntVar(&opts.maxTokens, "max-tokens", 0, "Maximum tokens in the answer (0 = service default)")
	f.BoolVar(&opts.noStream, "no-stream", false, "Wait for the whole answer instead of streaming it")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output (debug mode)")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runAssistant(cmd *cobra.Command, a *app, opts *options) error {
	ctx := cmd.Context()

	if opts.noColor {
		color.NoColor = true
	}

	log := logger.NewLogger(a.stderr, logLevel(opts.verbose))
	if opts.noColor {
		log.SetColorMode(false)
	}
	defer func() { _ = log.Sync() }()

	if err := config.LoadDotEnv(); err != nil {
		log.Warn("Ignoring .env: %v", err)
	}

	file, err := loadConfigFile(opts.configPath)
	if err != nil {
		return err
	}

	agentCfg, err := buildAgentConfig(cmd, opts, file)
	if err != nil {
		return err
	}

	// Resolve the image before touching the network so a bad path fails fast.
	var imageSource string
	imageMode := opts.image || opts.path != ""
	if imageMode {
		imageSource, err = resolveImage(a, opts, file)
		if err != nil {
			return err
		}
		log.Debug("Image source: %s", imageSource)
	}

	clientCfg, err := config.Resolve(config.Client{
		APIKey:  opts.apiKey,
		BaseURL: opts.baseURL,
		Model:   opts.model,
	}, a.getenv, file)
	if err != nil {
		return err
	}

	log.Debug("Creating LLM client (model: %s, base url: %s)", clientCfg.Model, clientCfg.BaseURL)
	client := a.newClient(clientCfg)

	renderer := cli.NewRenderer(a.stdout, a.stderr)
	if opts.noColor {
		renderer.SetColorMode(false)
	}

	ag := agent.New(client, renderer, agentCfg, log)

	switch {
	case imageMode:
		if !image.IsDataURI(imageSource) {
			renderer.Info("Analyzing image: %s", imageSource)
		}
		_, err = ag.RunImage(ctx, opts.text, imageSource)
	case opts.text != "":
		_, err = ag.RunText(ctx, opts.text)
	default:
		err = ag.RunInteractive(ctx, a.stdin)
	}
	return err
}

func logLevel(verbose bool) logger.Level {
	if verbose {
		return logger.LevelDebug
	}
	return logger.LevelInfo
}

func loadConfigFile(path string) (*config.File, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadWithDefaults()
}

func buildAgentConfig(cmd *cobra.Command, opts *options, file *config.File) (*agent.Config, error) {
	cfg := agent.DefaultConfig()
	cfg.Stream = !opts.noStream

	cfg.SystemPrompt = firstSet(opts.prompt, file.SystemPrompt, agent.DefaultSystemPrompt)
	cfg.ImageSystemPrompt = firstSet(opts.prompt, file.ImageSystemPrompt, agent.DefaultImageSystemPrompt)
	cfg.Welcome = firstSet(opts.start, file.Welcome, agent.DefaultWelcome)

	cfg.Temperature = file.Temperature
	if cmd.Flags().Changed("temperature") {
		if opts.temperature < 0 || opts.temperature > 2 {
			return nil, usageErrorf("--temperature must be between 0 and 2, got %g", opts.temperature)
		}
		t := opts.temperature
		cfg.Temperature = &t
	}

	cfg.MaxTokens = file.MaxTokens
	if cmd.Flags().Changed("max-tokens") {
		if opts.maxTokens < 0 {
			return nil, usageErrorf("--max-tokens cannot be negative")
		}
		cfg.MaxTokens = opts.maxTokens
	}

	return cfg, nil
}

// resolveImage returns the explicit path, or captures a screenshot when only
// --image was given. File paths must exist.
func resolveImage(a *app, opts *options, file *config.File) (string, error) {
	source := opts.path
	if source == "" {
		shotPath := firstSet(opts.screenshotPath, file.ScreenshotPath, screenshot.DefaultPath)
		captured, err := a.capture(shotPath)
		if err != nil {
			return "", err
		}
		source = captured
	}

	if image.IsDataURI(source) {
		return source, nil
	}

	if _, err := os.Stat(source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &image.NotFoundError{Path: source}
		}
		return "", err
	}
	return source, nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
