package gemini

// promptData represents the data passed to the prompt template
type promptData struct {
	Word           string
	MaxDefinitions int
	PartsOfSpeech  []string
}

// ResponseSchema represents the expected structure of the model's JSON output.
type ResponseSchema struct {
	Definitions []DefinitionSchema `json:"definitions"`
}

// DefinitionSchema is one generated sense.
type DefinitionSchema struct {
	PartOfSpeech string `json:"partOfSpeech"`
	Definition   string `json:"definition"`
	Example      string `json:"example,omitempty"`
}
