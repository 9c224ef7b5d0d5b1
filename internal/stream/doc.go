// Package stream implements the client side of the platform's generation
// streaming protocol.
//
// # Protocol
//
// A generation call is an HTTP POST whose response body carries repeated
// records of the form `data: <json>\n`, optionally interleaved with blank
// lines. Each record is a JSON object discriminated by a `type` field; no
// other SSE fields (event:, id:, retry:) are used. A session ends when the
// body closes; exactly one terminal record (`done` or `error`) must have been
// observed, otherwise the session fails with [ErrNoResult].
//
// # Pipeline
//
// [Session] drives the response body through a [ChunkBuffer] (byte-level line
// assembly, safe across arbitrary chunk boundaries including mid-rune splits),
// then [DecodeLine] (record parsing; corrupt lines are dropped, never fatal),
// then a [Reconciler] ([OutlineReconciler] or [ChapterBatchReconciler]) that
// folds the event sequence into one typed terminal result. A caller-supplied
// callback observes every decoded event for live UI updates.
//
// # Sessions are single-use
//
// Each Session owns its own buffer and counters and serves exactly one HTTP
// response body. Nothing in this package holds package-level mutable state,
// so concurrent sessions never interfere.
package stream
