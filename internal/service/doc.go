// Package service implements the business logic for Questboard.
//
// Services own the use-cases: registering users, promoting roles, running
// quests through their lifecycle, and recording quest summaries. Each service
// declares the narrow repository interface it needs, so tests swap in
// function-field mocks without touching a database.
//
// # Error Conventions
//
// Repositories return (nil, nil) for absent records; services translate that
// into the sentinel errors in errors.go (ErrUserNotFound and friends).
// Domain rule violations surface as the model package's invariant errors
// (model.ErrInvalidTransition, model.ErrDuplicateSignup, ...). Handlers map
// both families onto HTTP problem responses.
//
// # ID Allocation
//
// Entity creation is always allocate-then-write: the service asks the
// allocator for the next ID, builds the entity, validates it, and only then
// stores it. A storage failure after allocation burns the number, which is
// acceptable; IDs are never minted locally or reused.
package service
