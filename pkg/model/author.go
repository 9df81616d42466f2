package model

// Author is read-only reference data. One author is selected pseudo-randomly
// per generation run, optionally narrowed by concept.
type Author struct {
	AuthorID string `firestore:"authorId" json:"authorId" yaml:"authorId"`
	Name     string `firestore:"name" json:"name" yaml:"name"`
	Concept  string `firestore:"concept,omitempty" json:"concept,omitempty" yaml:"concept"`
	Style    string `firestore:"style,omitempty" json:"style,omitempty" yaml:"style"`
}
