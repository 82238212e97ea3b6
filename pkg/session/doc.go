// Package session stores signature editing sessions.
//
// A Session holds the draft signature, the copied-confirmation deadline and
// the displayed logo size for one browser. Sessions expire after a fixed TTL
// and nothing is kept once they do. Memory keeps sessions in process; Redis
// keeps them in a Redis server so several editor instances can share them.
package session
