package domain

import "strings"

// Well-known category ids of the default outline.
const (
	LiteratureEnglishCategoryID = "cat-lit-eng"
	LiteratureIdeasCategoryID   = "cat-lit-idea"
	ReadingLogCategoryID        = "cat-reading-log"
	ReadingLogPaperID           = "cat-reading-log-paper"
	ReadingLogReferenceID       = "cat-reading-log-reference"
	ReadingLogNovelID           = "cat-reading-log-novel"
	ReadingLogProfessionalID    = "cat-reading-log-pro"
	DailyThoughtsCategoryID     = "cat-daily-thoughts"
)

// Local part-of-speech taxonomy used for definitions.
const (
	PartOfSpeechNoun         = "noun"
	PartOfSpeechVerb         = "verb"
	PartOfSpeechAdjective    = "adjective"
	PartOfSpeechAdverb       = "adverb"
	PartOfSpeechPronoun      = "pronoun"
	PartOfSpeechPreposition  = "preposition"
	PartOfSpeechConjunction  = "conjunction"
	PartOfSpeechInterjection = "interjection"
	PartOfSpeechNumeral      = "numeral"
	PartOfSpeechArticle      = "article"
	PartOfSpeechOther        = "other"
)

// PartsOfSpeech lists the local taxonomy in display order.
var PartsOfSpeech = []string{
	PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
	PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechConjunction,
	PartOfSpeechInterjection, PartOfSpeechNumeral, PartOfSpeechArticle, PartOfSpeechOther,
}

var partOfSpeechCategory = map[string]string{
	PartOfSpeechNoun:         "cat-lit-eng-noun",
	PartOfSpeechVerb:         "cat-lit-eng-verb",
	PartOfSpeechAdjective:    "cat-lit-eng-adj",
	PartOfSpeechAdverb:       "cat-lit-eng-adv",
	PartOfSpeechPronoun:      "cat-lit-eng-pronoun",
	PartOfSpeechPreposition:  "cat-lit-eng-prep",
	PartOfSpeechConjunction:  "cat-lit-eng-conj",
	PartOfSpeechInterjection: "cat-lit-eng-interj",
	PartOfSpeechNumeral:      "cat-lit-eng-num",
	PartOfSpeechArticle:      "cat-lit-eng-art",
	PartOfSpeechOther:        "cat-lit-eng-other",
}

// NormalizePartOfSpeech maps a dictionary part of speech onto the local
// taxonomy. Unknown labels become PartOfSpeechOther.
func NormalizePartOfSpeech(pos string) string {
	pos = strings.ToLower(strings.TrimSpace(pos))
	if _, ok := partOfSpeechCategory[pos]; ok {
		return pos
	}
	return PartOfSpeechOther
}

// CategoryForPartOfSpeech returns the Literature English child category for a
// part of speech.
func CategoryForPartOfSpeech(pos string) string {
	return partOfSpeechCategory[NormalizePartOfSpeech(pos)]
}

// DefaultCategories returns the outline seeded into an empty knowledge base.
func DefaultCategories() []Category {
	root := func(id, name string) Category { return Category{ID: id, Name: name} }
	child := func(id, name, parent string) Category { return Category{ID: id, Name: name, ParentID: Ref(parent)} }

	return []Category{
		root(LiteratureEnglishCategoryID, "Literature English"),
		child("cat-lit-eng-noun", "Nouns", LiteratureEnglishCategoryID),
		child("cat-lit-eng-verb", "Verbs", LiteratureEnglishCategoryID),
		child("cat-lit-eng-adj", "Adjectives", LiteratureEnglishCategoryID),
		child("cat-lit-eng-adv", "Adverbs", LiteratureEnglishCategoryID),
		child("cat-lit-eng-pronoun", "Pronouns", LiteratureEnglishCategoryID),
		child("cat-lit-eng-prep", "Prepositions", LiteratureEnglishCategoryID),
		child("cat-lit-eng-conj", "Conjunctions", LiteratureEnglishCategoryID),
		child("cat-lit-eng-interj", "Interjections", LiteratureEnglishCategoryID),
		child("cat-lit-eng-num", "Numerals", LiteratureEnglishCategoryID),
		child("cat-lit-eng-art", "Articles", LiteratureEnglishCategoryID),
		child("cat-lit-eng-other", "Other parts of speech", LiteratureEnglishCategoryID),

		root(LiteratureIdeasCategoryID, "Literature Ideas"),
		child("cat-lit-idea-research", "Research methods", LiteratureIdeasCategoryID),
		child("cat-lit-idea-writing", "Writing methods", LiteratureIdeasCategoryID),

		root(ReadingLogCategoryID, "Reading Log"),
		child(ReadingLogPaperID, "Papers", ReadingLogCategoryID),
		child(ReadingLogReferenceID, "Reference books", ReadingLogCategoryID),
		child(ReadingLogNovelID, "Novels", ReadingLogCategoryID),
		child(ReadingLogProfessionalID, "Professional books", ReadingLogCategoryID),

		root(DailyThoughtsCategoryID, "Daily Thoughts"),
	}
}
