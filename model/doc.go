// Package model defines the provider-agnostic contract used by the agents to
// talk to language models, plus a scripted MockModel for tests.
//
// A Model streams Responses on one channel and errors on another. Partial
// responses carry text fragments in arrival order; the final response of a
// call carries the aggregated text and any tool calls. A call is finished once
// both channels are closed.
//
// Provider adapters live in the openai, anthropic and gemini subpackages so
// the orchestration layers never import a vendor SDK.
package model
