// Package gemini generates word definitions with Google's Gemini API. It is
// used as a fallback dictionary.Provider when the online dictionary has no
// answer.
//
// Calls are retried with exponential backoff and jitter for transient
// failures. Blocked or unparseable responses are permanent and returned
// immediately.
package gemini
