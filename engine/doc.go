// Package engine implements the exchange orchestrator for contractsmith.
//
// An exchange is one run of the pipeline triggered by a caller submission.
// The Engine records the submission on the chat's conversation, asks the
// decision agent whether the request is ready to be written, and then either
// streams a clarifying question or drives the generation loop until the
// writer produces output.
//
// # Exchange Lifecycle
//
//	Submit
//	  │  user turn appended (form JSON, skip marker or nothing)
//	  ▼
//	Classifying ── skip ──────────────────┐
//	  │                                   │
//	  ├── inquire ──▶ Inquiring ──▶ Done  │
//	  │                                   ▼
//	  └── proceed ──────────────▶ Generating ◀─┐ empty attempt
//	                                  │   └────┘
//	                                  ▼
//	                              Suggesting? ──▶ Done
//
// Every path ends in finalize, which runs exactly once per exchange:
//   - a leftover spinner is replaced (failure notice) or cleared (cancel)
//   - IsCollapsed, IsGenerating, Component and Code are marked done
//   - the transcript is committed and saved to the SessionStore
//   - Outcome is published last
//
// # Streams
//
// The Exchange record hands out read-only views of five progressive streams.
// Readers may attach at any time; every reader sees every version in order:
//
//	IsGenerating  bool         true until finalize
//	Component     []ui.Section render tree (spinner, code slot, inquiry, ...)
//	IsCollapsed   bool         true once the generation path starts
//	Code          string       accumulated text of the current attempt
//	Outcome       Outcome      pending until finalize
//
// # Concurrency
//
// Each exchange runs on its own goroutine with a context detached from the
// submitting request. Cancel and Shutdown cancel it; cancellation reaches
// every model call and every stage boundary. MaxConcurrentExchanges bounds
// the number of running exchanges with a weighted semaphore, and Submit
// fails fast with ErrTooManyExchanges instead of queueing.
//
// Two concurrent exchanges on the same chat both start from the same
// committed history; the one finalizing last wins the SessionStore write.
//
// # Callbacks
//
// Lifecycle hooks (exchange_start, decision, attempt_start, attempt_end,
// exchange_end) run synchronously on the exchange goroutine. Their errors
// are logged and never change the outcome.
package engine
