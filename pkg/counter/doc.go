// Package counter implements the number widget controller: a dual-mode state
// machine that either advances a 1..9 number on a local clock or mirrors the
// number and cycle count reported by a remote source.
//
// All state lives on a single loop goroutine started by Controller.Run.
// Commands, timer fires and fetch completions are delivered to that loop as
// events and handled one at a time, so no two mutations ever interleave.
// Results are pushed to a Display; the remote side is a Source.
package counter
