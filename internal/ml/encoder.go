package ml

import (
	"log"
	"sort"
)

// LabelEncoder maps categorical string values to stable integer codes.
// Classes are sorted before assignment so the same training set always
// produces the same codes regardless of row order.
type LabelEncoder struct {
	Classes []string       `json:"classes"`
	codes   map[string]int `json:"-"`
}

// NewLabelEncoder fits an encoder on the distinct values present
func NewLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]bool)
	var classes []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)

	e := &LabelEncoder{Classes: classes}
	e.buildIndex()
	return e
}

func (e *LabelEncoder) buildIndex() {
	e.codes = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.codes[c] = i
	}
}

// Encode returns the code for a value. Unknown values fall back to code 0
// with a warning so prediction degrades instead of failing.
func (e *LabelEncoder) Encode(value string) int {
	if e.codes == nil {
		e.buildIndex()
	}
	code, ok := e.codes[value]
	if !ok {
		log.Printf("[Encoder] Unknown category %q, falling back to code 0", value)
		return 0
	}
	return code
}

// Known reports whether the value was seen during fitting
func (e *LabelEncoder) Known(value string) bool {
	if e.codes == nil {
		e.buildIndex()
	}
	_, ok := e.codes[value]
	return ok
}
