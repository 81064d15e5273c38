// Package middleware provides HTTP middleware for the Questboard API.
//
// Middleware composes via Chain, which applies wrappers in the order
// given so the first middleware sees the request first:
//
//	handler := middleware.Chain(mux,
//		middleware.RequestID,
//		middleware.Logger,
//		middleware.Recovery,
//	)
//
// ServiceAuth guards mutating routes with a single shared bearer token
// for the Discord bot, verified against a bcrypt hash from
// configuration. There is no per-user authentication; the bot vouches
// for the acting member and passes their ID in request bodies.
package middleware
