// Package handler provides the thin JSON presentation surface over the
// application state facade and the matching engine. Handlers decode
// requests, delegate, and map errors to RFC 9457 problem details; no
// domain logic lives here.
package handler
