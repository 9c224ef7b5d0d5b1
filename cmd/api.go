package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/tasks"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the platform API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if useJSON {
		if resp.IsJSON {
			return r.writeJSON(resp.JSONData, false)
		}
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIPost makes a direct POST request to the platform API
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	r.logger.Info("POST request", "path", path)

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APISnapshot fetches and displays account-wide platform state.
func (r *Runner) APISnapshot(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	if r.engine == nil {
		return fmt.Errorf("%w: generation engine not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("fetching account snapshot")
	r.writePlain("Fetching account state...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("📊 %s\n", update.Message)
		}
	}()

	snapshot, err := r.engine.Snapshot(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n✓ Snapshot complete\n\n")

	type snapshotData struct {
		Health   any                 `json:"health,omitempty"`
		Projects any                 `json:"projects,omitempty"`
		Tasks    map[string]any      `json:"tasks,omitempty"`
		Errors   []map[string]string `json:"errors,omitempty"`
	}

	out := snapshotData{
		Health:   snapshot.Health,
		Projects: snapshot.Projects,
		Tasks:    snapshot.Tasks,
	}
	for _, failure := range snapshot.Errors {
		out.Errors = append(out.Errors, map[string]string{
			"endpoint": failure.Endpoint,
			"error":    failure.Error.Error(),
		})
	}

	if save {
		saveFile := "inkwell_snapshot.json"
		data, err := shared.MarshalJSON(out, true)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save snapshot", "error", err)
		} else {
			r.logger.Info("snapshot saved", "file", saveFile)
			r.writePlain("✓ Snapshot saved to %s\n\n", saveFile)
		}
	}

	return r.writeJSON(out, pretty)
}

// apiCommand handles direct platform API calls and the account snapshot
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the Inkwell platform",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the platform, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "snapshot",
				Usage: "Account-wide state dump (health, projects, task status)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save snapshot to inkwell_snapshot.json",
						Value: false,
					},
				},
				Action: r.APISnapshot,
			},
		},
	}
}
