// Package events carries change notifications out of the domain store.
//
// The store emits a ChangeEvent after every mutation; views, loggers and the
// CLI register handlers without the store knowing about them.
//
// The primary components are:
// - ChangeEvent: describes one mutation of a collection
// - EventHandler: interface for components that react to changes
// - EventEmitter: interface for components that publish changes
package events
