package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
)

// readChunkSize is the transport read granularity. Line assembly does not
// depend on it; any value works under arbitrary network chunking.
const readChunkSize = 4096

// Session drives one streamed generation exchange from request to terminal
// result. Construct one per invocation and discard it afterwards; a Session
// owns its own buffer and counters and must not be reused.
type Session struct {
	client *http.Client
	logger *log.Logger

	buf     ChunkBuffer
	raw     bytes.Buffer
	decoded int
}

// NewSession creates a session using the given HTTP client.
//
// The client must not carry a global timeout; generation streams stay open
// for minutes. Cancellation is the caller's context.
func NewSession(client *http.Client, logger *log.Logger) *Session {
	if client == nil {
		client = &http.Client{}
	}
	return &Session{client: client, logger: logger}
}

// Run issues the request and folds the streamed response into rec.
//
// Every decoded event is handed to onEvent (when non-nil) before the
// reconciler sees it, heartbeats included. Run returns transport-level
// failures only; protocol-level outcomes (done, error, missing terminal) are
// read from the reconciler afterwards. The response body is released on every
// exit path. Canceling ctx aborts the read loop and returns the context's
// error, never hangs.
func (s *Session) Run(ctx context.Context, method, url string, payload any, rec Reconciler, onEvent ProgressFunc) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.statusError(resp)
	}

	return s.consume(ctx, resp.Body, rec, onEvent)
}

// statusError maps a non-OK response to a [StatusError], preferring a
// server-supplied error message when the body carries one.
func (s *Session) statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
		return &StatusError{Code: resp.StatusCode, Message: envelope.Error}
	}

	return &StatusError{Code: resp.StatusCode}
}

// consume reads the body to completion, feeding each chunk through the line
// buffer and dispatching decoded events.
func (s *Session) consume(ctx context.Context, body io.Reader, rec Reconciler, onEvent ProgressFunc) error {
	chunk := make([]byte, readChunkSize)
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			s.raw.Write(chunk[:n])
			for _, line := range s.buf.Feed(chunk[:n]) {
				s.dispatch(line, rec, onEvent)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("stream read failed: %w", err)
		}
	}

	// an unterminated final record still goes through the same path
	if line, ok := s.buf.Flush(); ok {
		s.dispatch(line, rec, onEvent)
	}

	if s.decoded == 0 {
		s.fallback(rec, onEvent)
	}

	return nil
}

// dispatch decodes one line and forwards the event. Undecodable lines are
// dropped; a single corrupt record never aborts the session.
func (s *Session) dispatch(line string, rec Reconciler, onEvent ProgressFunc) {
	ev, ok := DecodeLine(line)
	if !ok {
		if line != "" && s.logger != nil {
			s.logger.Debug("dropped undecodable stream line", "bytes", len(line))
		}
		return
	}

	s.decoded++
	if onEvent != nil {
		onEvent(ev)
	}
	rec.Apply(ev)
}

// fallback applies the legacy whole-body interpretation when line decoding
// produced zero events: the entire body is parsed as one JSON object and
// treated as a terminal record, or as a generic success/error envelope when
// it has no type field.
func (s *Session) fallback(rec Reconciler, onEvent ProgressFunc) {
	data := bytes.TrimSpace(s.raw.Bytes())
	if len(data) == 0 {
		return
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		if s.logger != nil {
			s.logger.Debug("whole-body fallback: body is not JSON", "bytes", len(data))
		}
		return
	}

	if ev.Type == "" {
		// Envelope heuristic: explicit success=false is a failure, anything
		// else is an implicit successful terminal record.
		if ev.Success != nil && !*ev.Success {
			ev.Type = EventError
			if ev.Error == "" {
				ev.Error = ev.Message
			}
		} else {
			ev.Type = EventDone
			if ev.Success == nil {
				ok := true
				ev.Success = &ok
			}
		}
	}

	s.decoded++
	if onEvent != nil {
		onEvent(ev)
	}
	rec.Apply(ev)
}
