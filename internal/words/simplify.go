package words

import "strings"

// The dictionary API's definitions are written for adults. The email aims at
// a younger reader, so definitions that are long, jargon-heavy, or circular
// get replaced with the curated ones from the fallback list.

var complexMarkers = []string{
	"obstinately", "inquisitive", "connotation", "prying",
	"withstand", "conscientiousness", "transitory", "persuasive",
	"occurrence", "beneficial", "adapted", "conditions",
}

var circularMarkers = []string{
	"to feel compassion",
	"with compassion",
	"having compassion",
	"showing compassion",
	"regard with compassion",
}

func tooComplex(definition string) bool {
	if len(definition) > 50 || strings.Contains(definition, ";") {
		return true
	}
	lower := strings.ToLower(definition)
	for _, m := range complexMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func circular(definition string) bool {
	lower := strings.ToLower(definition)
	for _, m := range circularMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// polish decides between an API result and the curated entry for the same
// term. Curated definitions and examples win whenever the API's definition
// is too complex or circular; curated examples always win when present.
func polish(api Word) Word {
	curated, ok := fallbackByTerm(api.Term)
	if ok && (tooComplex(api.Definition) || circular(api.Definition)) {
		return curated
	}
	if ok && curated.Example != "" {
		api.Example = curated.Example
	}
	if api.Example == "" {
		api.Example = genericExample(api.Term, api.Definition)
	}
	return api
}

func genericExample(term, definition string) string {
	return `The word "` + term + `" means ` + strings.ToLower(definition) + `. Can you use it in a sentence?`
}
