// Package handler provides HTTP request handlers for the Questboard API.
//
// Each handler struct wraps one service and exposes methods bound to
// method-qualified ServeMux patterns in cmd/server. Handlers stay thin:
// decode the request, call the service, map errors.
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: single resource wrapped in a data envelope
//   - WriteCollection: list of resources with a count
//   - WriteError: RFC 9457 Problem Details error response
//   - WriteNoContent: 204 for deletes and fire-and-forget telemetry
//
// # Acting Member
//
// The API is consumed by the Discord bot, which authenticates once with
// a shared service token. The member a command was issued by arrives in
// the request body (actor_id, referee_id, user_id fields) rather than
// in an auth context, and handlers pass it through to the service layer
// for authorization checks like "only the quest's referee may start it".
package handler
