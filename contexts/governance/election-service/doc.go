// Package electionservice implements the single-organizer ballot workflow
// inside the governance context.
//
// An administrator registers voters, opens and closes proposal
// registration, runs a voting window and tallies a plurality winner. Every
// operation is gated by caller identity and by workflow status; rejected
// operations leave the election untouched.
//
// Layering:
// - domain: election aggregate, workflow transition table, tally, errors
// - application: commands/queries/workers using explicit ports
// - ports: repository, outbox and event bus boundaries
// - adapters: HTTP facade, in-memory store, gorm/postgres repository
// - transport: module-private DTOs, request validation, address normalization
package electionservice
