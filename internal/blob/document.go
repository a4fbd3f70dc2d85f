package blob

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MaxDocumentBytes bounds the size of a stored document.
const MaxDocumentBytes = 16 << 20

// Document is the shape every stored knowledge base must have. Records are
// kept as raw JSON: the server checks structure, not entity contents.
type Document struct {
	Words           []json.RawMessage `json:"words" validate:"required"`
	KnowledgePoints []json.RawMessage `json:"knowledgePoints" validate:"required"`
	Categories      []json.RawMessage `json:"categories" validate:"required"`
	Tasks           []json.RawMessage `json:"tasks" validate:"required"`
}

var validate = validator.New()

// EmptyDocument is returned for a key that holds nothing yet.
func EmptyDocument() []byte {
	return []byte(`{"words":[],"knowledgePoints":[],"categories":[],"tasks":[]}`)
}

// ParseDocument decodes and validates data. All four arrays must be present;
// an explicit null counts as missing.
func ParseDocument(data []byte) (*Document, error) {
	if len(data) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidDocument, MaxDocumentBytes)
	}
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, describe(err))
	}
	return &doc, nil
}

// describe turns validator errors into a short list of missing fields.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	var b bytes.Buffer
	b.WriteString("missing ")
	for i, fe := range verrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(jsonName(fe.Field()))
	}
	return b.String()
}

func jsonName(field string) string {
	switch field {
	case "Words":
		return "words"
	case "KnowledgePoints":
		return "knowledgePoints"
	case "Categories":
		return "categories"
	case "Tasks":
		return "tasks"
	default:
		return field
	}
}

// Canonical re-encodes a validated document so that stored bytes are compact.
func (d *Document) Canonical() ([]byte, error) {
	return json.Marshal(d)
}
