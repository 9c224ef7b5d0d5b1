package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/quillhq/inkwell/internal/server"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// oauthService is the slice of the platform service the browser login flow needs.
type oauthService interface {
	GetAuthURL(state string) string
	OAuthConfig() *oauth2.Config
}

// AuthLogin performs the OAuth2 authorization flow against the platform.
//
// Starts a local HTTP server, opens the browser for user authorization, and exchanges the auth code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	if r.config.Credentials.Platform.ClientID == "" {
		return fmt.Errorf("%w: platform client_id must be set in config.toml", shared.ErrInvalidArgument)
	}

	oauthSrv, ok := r.platform.(oauthService)
	if !ok {
		return fmt.Errorf("%w: platform service does not support browser login", shared.ErrNotImplemented)
	}

	token, err := r.doOAuth(oauthSrv)
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}

	if err := r.platform.Authenticate(ctx, map[string]string{"access_token": token.AccessToken}); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	r.writePlain("You can now use: inkwell projects list\n")

	return nil
}

// AuthImport imports a browser session from a saved cURL command.
//
// The platform's web app request (DevTools "Copy as cURL") carries the session headers the CLI can reuse.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlFile := cmd.StringArg("path")
	if curlFile == "" {
		return fmt.Errorf("%w: path to a cURL file is required", shared.ErrMissingArgument)
	}

	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("importing browser session", "file", curlFile)

	// Parse up front so a malformed file fails before any config change.
	if _, err := shared.ParseCurlFile(curlFile); err != nil {
		return fmt.Errorf("failed to parse cURL file: %w", err)
	}

	if err := r.platform.Authenticate(ctx, map[string]string{"headers_path": curlFile}); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.config.Credentials.Platform.HeadersPath = curlFile
	if r.configPath != "" {
		if err := shared.SaveConfig(r.configPath, r.config); err != nil {
			r.logger.Warn("failed to persist headers path", "error", err)
		}
	}

	r.writePlain("✓ Browser session imported\n")
	r.writePlain("Session file recorded in %s\n", r.configPath)
	return nil
}

// AuthStatus checks current authentication state by calling the platform's /health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("checking auth status")

	if err := r.platform.Health(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("✓ Service is healthy\n")

	type authChecker interface{ Authenticated() bool }
	if svc, ok := r.platform.(authChecker); ok {
		if svc.Authenticated() {
			r.writePlain("Authentication: ✓ Authenticated\n")
		} else {
			r.writePlain("Authentication: ✗ Not authenticated\n")
		}
	}

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(oauthSrv oauthService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthSrv.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(oauthSrv.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogging(r.logger))
	router.Handler(oauthHandler)

	serverAddr := r.config.Server.Addr()
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for platform authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with the platform using OAuth2",
				Action: r.AuthLogin,
			},
			{
				Name:  "import",
				Usage: "Import a browser session from a saved cURL command",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.AuthImport,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state (calls /health)",
				Action: r.AuthStatus,
			},
		},
	}
}
