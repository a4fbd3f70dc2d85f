// Package store holds the in-memory knowledge base: words, knowledge points,
// categories and tasks.
//
// A Store is the single owner of the four collections. Every mutation keeps
// words, knowledge points and tasks ordered newest first, publishes a change
// event and schedules a debounced save of the full snapshot through a
// Gateway. Save failures are recorded in a sticky SaveStatus instead of being
// returned to the mutator.
package store
