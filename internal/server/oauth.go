package server

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// successPage is shown in the browser after a completed login so the user
// knows to return to the terminal.
const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Signed In</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #6C5CE7; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Signed In</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`

// OAuthResult carries the outcome of one authorization flow: a token or the
// reason it failed.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler serves the platform's authorization-code callback. It accepts
// exactly one callback per flow; replays get 400. Implements [Handler].
type OAuthHandler struct {
	config      *oauth2.Config
	state       string
	resultChan  chan OAuthResult
	once        sync.Once
	mu          sync.Mutex
	callbackHit bool
}

// NewOAuthHandler builds a handler bound to one flow's config and CSRF state
// token. The state must be cryptographically random.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:     config,
		state:      state,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP validates the callback, exchanges the code for tokens, and
// publishes the result.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	replayed := h.callbackHit
	h.callbackHit = true
	h.mu.Unlock()
	if replayed {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()

	if query.Get("state") != h.state {
		h.Send(OAuthResult{err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.Send(OAuthResult{err: fmt.Errorf(
			"authorization failed: %s - %s", query.Get("error"), query.Get("error_description"),
		)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// Send publishes the flow result. Only the first call wins; the channel is
// closed after it.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel the flow outcome is delivered on. It receives
// exactly one value and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}
