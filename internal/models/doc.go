// Package models defines the core domain models for the bill-date worker.
//
// # Models
//
//   - Bill: a recurring or one-time payment obligation definition. Bills are
//     created and edited by the external billing domain; this system only
//     reads them.
//   - BillDate: one concrete calendar occurrence derived from a Bill within a
//     pay period. Fully owned by the generation engine; the occurrence table
//     is purged at the start of each run, so rows have run-scoped lifetime.
//   - Job: a unit of requested work recorded for asynchronous execution by the
//     worker loop. External tooling inserts pending rows; only the worker
//     mutates status and output.
//
// # Design Principles
//
//  1. Plain structs, no behavior: all date math lives in internal/recurrence.
//  2. Dates travel as YYYY-MM-DD strings, matching how they are stored and
//     compared (ISO date strings order lexically).
//  3. The frequency kind set is closed; unrecognized kinds are skipped by the
//     engine, never fatal.
package models
