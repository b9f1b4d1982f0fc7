// Package stream implements single-writer, multi-reader progressive channels
// with a terminal "done" state.
//
// A Value carries a scalar that is replaced on every Update. A Node carries an
// ordered list of opaque elements supporting Update (replace the newest
// element) and Append. Both record every published version so readers can
// attach at any time and still observe the full, ordered sequence through
// Updates, or block until completion through Wait. A Value created with
// WithHistory retains only its newest versions; late readers then start at
// the oldest retained one.
//
// Terminal contract: once Done (or DoneWith) succeeds, every further mutating
// call fails with core.ErrInvalidState and leaves the committed value intact.
// There is no producer-side cancellation; a stream runs until its writer marks
// it done. Reader goroutines stop when their context is cancelled.
package stream
