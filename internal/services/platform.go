// Inkwell platform implementation of [Service]
//
// Wraps the platform's project CRUD endpoints, the streamed generation
// endpoints, and the out-of-band task status endpoint.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/stream"
	"golang.org/x/oauth2"
)

const (
	platformAuthPath  = "/oauth/authorize"
	platformTokenPath = "/oauth/token"
)

// PlatformService implements the Service interface for the Inkwell generation
// platform. Uses [oauth2] for authentication, with imported browser session
// headers as a fallback, and drives streamed generation through
// [stream.Session].
type PlatformService struct {
	baseURL    string
	config     *oauth2.Config
	token      *oauth2.Token
	session    *shared.SessionHeaders
	httpClient *http.Client
	logger     *log.Logger
}

// NewPlatformService creates a platform service from the configured
// credentials. The base URL must point at the platform API root.
func NewPlatformService(cfg shared.PlatformConfig, logger *log.Logger) (*PlatformService, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: platform base_url", shared.ErrMissingConfig)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{"projects.read", "projects.write", "generation"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  baseURL + platformAuthPath,
			TokenURL: baseURL + platformTokenPath,
		},
	}

	return &PlatformService{
		baseURL:    baseURL,
		config:     oauthConfig,
		httpClient: http.DefaultClient,
		logger:     logger,
	}, nil
}

func (s *PlatformService) Name() string {
	return "Inkwell Platform"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *PlatformService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the OAuth2 configuration for callback-driven login flows.
func (s *PlatformService) OAuthConfig() *oauth2.Config {
	return s.config
}

// Authenticate establishes credentials for subsequent requests. Expects one of
// "access_token", "auth_code", or "headers_path" (a saved curl command to
// import a browser session from) in credentials.
func (s *PlatformService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("failed to exchange auth code: %w", err)
		}
		s.token = token
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	if headersPath, ok := credentials["headers_path"]; ok && headersPath != "" {
		session, err := shared.ParseCurlFile(headersPath)
		if err != nil {
			return fmt.Errorf("failed to import session headers: %w", err)
		}
		s.session = session
		s.httpClient = &http.Client{Transport: &sessionTransport{session: session}}
		return nil
	}

	return fmt.Errorf("%w: access_token, auth_code, or headers_path", shared.ErrMissingCredentials)
}

// Authenticated reports whether the service holds usable credentials.
func (s *PlatformService) Authenticated() bool {
	return s.token != nil || s.session != nil
}

// sessionTransport injects imported browser session headers into every request.
type sessionTransport struct {
	session *shared.SessionHeaders
	base    http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	t.session.Apply(clone.Header.Set)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// doRequest performs an authenticated JSON request against the platform API.
func (s *PlatformService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if !s.Authenticated() {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	var reqBody *strings.Reader
	var req *http.Request
	var err error

	if body != nil {
		data, merr := json.Marshal(body)
		if merr != nil {
			return fmt.Errorf("failed to encode request body: %w", merr)
		}
		reqBody = strings.NewReader(string(data))
		req, err = http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrProjectNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			return fmt.Errorf("%w: %s (status %d)", shared.ErrAPIRequest, envelope.Error, resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetProjects retrieves all novel projects for the authenticated user.
func (s *PlatformService) GetProjects(ctx context.Context) ([]models.Project, error) {
	var response struct {
		Projects []models.Project `json:"projects"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/api/projects", nil, &response); err != nil {
		return nil, err
	}
	return response.Projects, nil
}

// GetProject retrieves a specific project by ID.
func (s *PlatformService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	endpoint := fmt.Sprintf("/api/projects/%s", projectID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject registers a new project on the platform.
func (s *PlatformService) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project == nil || project.Title == "" {
		return nil, fmt.Errorf("%w: project title", shared.ErrMissingArgument)
	}

	var created models.Project
	if err := s.doRequest(ctx, http.MethodPost, "/api/projects", project, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProject pushes changed project metadata to the platform.
func (s *PlatformService) UpdateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project == nil || project.ID == "" {
		return nil, fmt.Errorf("%w: project ID", shared.ErrMissingArgument)
	}

	var updated models.Project
	endpoint := fmt.Sprintf("/api/projects/%s", project.ID)
	if err := s.doRequest(ctx, http.MethodPut, endpoint, project, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProject removes a project from the platform.
func (s *PlatformService) DeleteProject(ctx context.Context, projectID string) error {
	endpoint := fmt.Sprintf("/api/projects/%s", projectID)
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// GetOutline retrieves the stored outline for a project, if one exists.
func (s *PlatformService) GetOutline(ctx context.Context, projectID string) (*models.NovelOutline, error) {
	var outline models.NovelOutline
	endpoint := fmt.Sprintf("/api/projects/%s/outline", projectID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &outline); err != nil {
		return nil, err
	}
	return &outline, nil
}

// GetChapters retrieves the generated chapters recorded for a project.
func (s *PlatformService) GetChapters(ctx context.Context, projectID string) ([]models.GeneratedChapter, error) {
	var response struct {
		Chapters []models.GeneratedChapter `json:"chapters"`
	}
	endpoint := fmt.Sprintf("/api/projects/%s/chapters", projectID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Chapters, nil
}

// GenerateOutline streams outline generation for a project and returns the
// terminal outline. The stream stays open until the server emits a terminal
// record or ctx is canceled.
func (s *PlatformService) GenerateOutline(ctx context.Context, projectID string, req *OutlineRequest, onEvent stream.ProgressFunc) (*models.NovelOutline, error) {
	if !s.Authenticated() {
		return nil, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	rec := stream.NewOutlineReconciler()
	endpoint := fmt.Sprintf("%s/api/projects/%s/outline/stream", s.baseURL, projectID)

	session := stream.NewSession(s.streamClient(), s.logger)
	if err := session.Run(ctx, http.MethodPost, endpoint, req, rec, onEvent); err != nil {
		return nil, err
	}

	return rec.Result()
}

// GenerateChapters streams batch chapter generation for a project and returns
// the terminal batch result.
func (s *PlatformService) GenerateChapters(ctx context.Context, projectID string, req *ChapterBatchRequest, onEvent stream.ProgressFunc) (*models.ChapterBatchResult, error) {
	if !s.Authenticated() {
		return nil, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}
	if req == nil || req.Count <= 0 {
		return nil, fmt.Errorf("%w: chapter count must be positive", shared.ErrInvalidArgument)
	}

	rec := stream.NewChapterBatchReconciler()
	endpoint := fmt.Sprintf("%s/api/projects/%s/chapters/stream", s.baseURL, projectID)

	session := stream.NewSession(s.streamClient(), s.logger)
	if err := session.Run(ctx, http.MethodPost, endpoint, req, rec, onEvent); err != nil {
		return nil, err
	}

	return rec.Result()
}

// streamClient returns the authenticated client for streaming calls. The
// client carries no global timeout; generation streams are bounded only by
// the caller's context.
func (s *PlatformService) streamClient() *http.Client {
	return s.httpClient
}

// TaskStatus retrieves the server-held generation task state for a project.
// Returns [shared.ErrTaskNotFound] when no task exists for the project.
func (s *PlatformService) TaskStatus(ctx context.Context, projectID string) (*models.GenerationTask, error) {
	var task models.GenerationTask
	endpoint := fmt.Sprintf("/api/projects/%s/task", projectID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &task); err != nil {
		if errors.Is(err, shared.ErrProjectNotFound) {
			return nil, shared.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Health checks whether the platform API is reachable. It does not require
// authentication.
func (s *PlatformService) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}
