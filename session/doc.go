// Package session provides SessionStore implementations holding the
// committed transcript of every chat between exchanges.
package session
