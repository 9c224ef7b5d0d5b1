// Package server provides HTTP routing, middleware, and OAuth handling for the CLI's local surfaces.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow against the generation platform.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs `inkwell auth login`, a temporary HTTP server starts on localhost:3000,
// the platform's authorization page opens in the browser, the handler receives the callback,
// and the server shuts down after the OAuth token arrives.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
