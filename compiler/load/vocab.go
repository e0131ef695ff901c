package load

import (
	json "github.com/goccy/go-json"
)

// Vocabulary is a parsed *.jsonld document: an RDF-style @graph of
// class and property descriptors. It is a descriptive cross-reference
// only and never a source of type structure.
type Vocabulary struct {
	Path  string
	Graph []*Term
}

// Term is one @graph entry.
type Term struct {
	ID      string `json:"@id"`
	Type    string `json:"@type"`
	Label   string `json:"rdfs:label"`
	Comment string `json:"rdfs:comment"`
}

// UnmarshalVocabulary decodes a JSON-LD vocabulary document.
func UnmarshalVocabulary(path string, data []byte) (*Vocabulary, error) {
	var doc struct {
		Graph []*Term `json:"@graph"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	return &Vocabulary{Path: path, Graph: doc.Graph}, nil
}

// Mismatch reports a schema @id with no corresponding vocabulary term,
// or a property name bound to two distinct @id values across schemas.
type Mismatch struct {
	Title    string // schema title (empty for cross-schema property conflicts)
	Property string // property name, when property-level
	ID       string // the @id in question
	Message  string
}

// CheckVocabulary cross-checks every @id declared by the corpus's
// schemas and properties against the loaded vocabularies. Mismatches
// are advisory: the generator proceeds, the CLI logs them.
func CheckVocabulary(c *Corpus) []Mismatch {
	known := make(map[string]bool)
	for _, v := range c.Vocabularies {
		for _, t := range v.Graph {
			known[t.ID] = true
		}
	}
	if len(known) == 0 {
		return nil
	}
	var mismatches []Mismatch
	propIDs := make(map[string]string) // property name -> @id
	for _, s := range c.Schemas {
		if s.JSONLD != "" && !known[s.JSONLD] {
			mismatches = append(mismatches, Mismatch{
				Title: s.Title, ID: s.JSONLD,
				Message: "schema @id has no vocabulary term",
			})
		}
		for _, name := range s.Names() {
			p := s.Properties[name]
			if p.JSONLD == "" {
				continue
			}
			if !known[p.JSONLD] {
				mismatches = append(mismatches, Mismatch{
					Title: s.Title, Property: name, ID: p.JSONLD,
					Message: "property @id has no vocabulary term",
				})
			}
			if prev, ok := propIDs[name]; ok && prev != p.JSONLD {
				mismatches = append(mismatches, Mismatch{
					Property: name, ID: p.JSONLD,
					Message: "property bound to conflicting @id values (" + prev + ")",
				})
			} else {
				propIDs[name] = p.JSONLD
			}
		}
	}
	return mismatches
}
