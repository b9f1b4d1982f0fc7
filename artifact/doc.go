// Package artifact provides ArtifactStore implementations. Every successful
// exchange stores the generated contract as a new version of a named
// artifact in its chat, so earlier revisions stay retrievable.
package artifact
