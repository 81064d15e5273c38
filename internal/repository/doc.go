// Package repository provides data access for Questboard entities.
//
// Every entity is stored as a single SurrealDB document keyed by its
// canonical ID string, e.g. quest:QUES0042, so the record key and the wire
// identifier never drift apart. Documents are written whole with UPSERT ...
// CONTENT; partial updates go through the domain model first.
//
// # ID Allocation
//
// IDAllocator owns the per-kind counter documents. Each allocation runs
//
//	UPSERT type::thing("counter", $kind) SET seq += 1 RETURN AFTER
//
// as a single atomic statement, so concurrent allocations always observe
// distinct sequence numbers. A failed entity write after allocation leaves a
// gap in the sequence, which is fine; numbers are never reused.
//
// # Not-Found Convention
//
// GetByID returns (nil, nil) when the record is absent. The service layer
// maps that to its own not-found sentinel; repositories never invent domain
// errors.
package repository
