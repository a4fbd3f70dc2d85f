// Package blob defines the server side of the persistence endpoint: a
// key-value store holding one JSON document per key, and the validation
// applied to documents before they are stored.
package blob
