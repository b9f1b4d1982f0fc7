// Package conversation holds the durable, append-only transcript of one
// exchange. The orchestrator owns a State; agents only receive the
// Transcript handle (Window + Append) and can never commit.
//
// Window implements the model-context truncation rule: at most MaxTurns of
// the most recent turns, optionally further reduced to fit a token budget
// estimated with the cl100k_base tokenizer. The full history is retained and
// returned by Commit so the caller can persist it between exchanges.
package conversation
