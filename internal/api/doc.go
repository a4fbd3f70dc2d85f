// Package api serves the persistence endpoint and the dictionary proxy over
// HTTP. Handlers translate requests into blob.Store and dictionary.Provider
// calls and map their errors to status codes without leaking internals.
package api
