package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/quillhq/inkwell/internal/repositories"
	"github.com/quillhq/inkwell/internal/services"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	platform   services.Service
	api        *services.APIService
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.NovelEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Platform   services.Service
	API        *services.APIService
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	engine := tasks.NewNovelEngine(opts.Platform, opts.API)
	if opts.DB != nil {
		engine = engine.WithCacher(repositories.NewChapterCacheAdapter(repositories.NewChapterRepository(opts.DB)))
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		platform:   opts.Platform,
		api:        opts.API,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
	}
}

// SetLogger swaps the Runner's logger, used when command output must not share the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, projectsCommand, generateCommand, taskCommand, exportCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// saveTokens persists OAuth tokens to the runner's config file.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("config is nil")
	}

	if err := r.config.Credentials.Platform.Update(token); err != nil {
		return fmt.Errorf("failed to update platform configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// runRepository returns the run history repository, or nil when no database is attached.
func (r *Runner) runRepository() *repositories.GenerationRunRepository {
	if r.db == nil {
		return nil
	}
	return repositories.NewGenerationRunRepository(r.db)
}

func (r *Runner) projectRepository() (*repositories.ProjectRepository, error) {
	if r.db == nil {
		return nil, fmt.Errorf("%w: database not initialized, run 'inkwell setup database' first", shared.ErrServiceUnavailable)
	}
	return repositories.NewProjectRepository(r.db), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
