package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the generator cannot be built.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrEmptyWord is returned when asked to define a blank word.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrInvalidResponse is returned when the model output cannot be used.
	ErrInvalidResponse = errors.New("invalid response from gemini")

	// ErrContentBlocked is returned when safety filters block the response.
	ErrContentBlocked = errors.New("content blocked by gemini safety filters")

	// ErrTransientFailure is returned after retries are exhausted.
	ErrTransientFailure = errors.New("transient gemini failure")
)
