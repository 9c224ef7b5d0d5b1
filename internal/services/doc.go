// Package services defines the [Service] interface for the novel generation
// platform and implements it for the Inkwell API.
//
// # Service Interface
//
// All platform access goes through a common abstraction, so commands, the TUI,
// and tests can work against [PlatformService] or a mock interchangeably.
//
// # Platform Implementation
//
// [PlatformService] uses OAuth2 for authentication with automatic token
// refresh via the [oauth2.Config] client. As a fallback for deployments
// without an OAuth client registration, a browser session can be imported
// from a saved curl command (see [shared.ParseCurlFile]); the captured
// headers are then injected into every request.
//
// Generation is streamed: GenerateOutline and GenerateChapters open a
// [stream.Session] against the platform's streaming endpoints and fold the
// event stream into a terminal result. Project CRUD and task status are
// plain JSON calls.
//
// # Raw API Access
//
// [APIService] issues raw requests against arbitrary platform paths and is
// the backend of the `inkwell api` command.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrProjectNotFound] : project ID not found
//   - [shared.ErrTaskNotFound] : no generation task exists for the project
//   - [shared.ErrServiceUnavailable] : health check failed
package services
