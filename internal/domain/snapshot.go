package domain

// Snapshot is the full state of the knowledge base as exchanged with the
// persistence endpoint and used for backup/restore.
type Snapshot struct {
	Words           []Word           `json:"words"`
	KnowledgePoints []KnowledgePoint `json:"knowledgePoints"`
	Categories      []Category       `json:"categories"`
	Tasks           []Task           `json:"tasks"`
}

// EmptySnapshot returns a snapshot whose four collections are empty, not nil.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Words:           []Word{},
		KnowledgePoints: []KnowledgePoint{},
		Categories:      []Category{},
		Tasks:           []Task{},
	}
}

// IsEmpty reports whether all four collections are empty.
func (s Snapshot) IsEmpty() bool {
	return len(s.Words) == 0 && len(s.KnowledgePoints) == 0 &&
		len(s.Categories) == 0 && len(s.Tasks) == 0
}

// WithDefaults replaces nil collections with empty ones.
func (s Snapshot) WithDefaults() Snapshot {
	if s.Words == nil {
		s.Words = []Word{}
	}
	if s.KnowledgePoints == nil {
		s.KnowledgePoints = []KnowledgePoint{}
	}
	if s.Categories == nil {
		s.Categories = []Category{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	return s
}
