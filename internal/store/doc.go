// Package store provides in-memory storage and change notification for polls.
//
// This package is internal to quickpoll. It keeps poll records keyed by id,
// performs the atomic counter updates behind vote recording, and publishes a
// [Change] to subscribers after every mutation.
//
// The main components are:
//
//   - [Store]: Interface defining storage and subscription operations
//   - [MemoryStore]: In-memory implementation of Store
//   - [PollRecord]: Storage representation of a poll and its tallies
//
// Validation of questions, options and selections is not done here; it
// belongs to the poll package, which is the public face of this storage.
package store
