// Package core provides the foundational domain types shared by every other
// contractsmith package:
//
//   - Turns (role-tagged transcript entries with a closed set of content parts)
//   - Sentinel errors for terminal stream misuse and exhausted generation loops
//   - AttemptLimiter, the bound on generation attempts within one exchange
//   - Store interfaces for committed transcripts and generated artifacts
//
// The package intentionally keeps implementation concerns (model transport,
// orchestration, rendering) out of scope so that it can be imported by all
// layers without cycles.
package core
