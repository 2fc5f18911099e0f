package app

import "strings"

// DefaultModel is used when no model was configured.
const DefaultModel = "gemini-2.5-flash"

// knownModels is the closed set of recognized model identifiers. An id
// outside this set is a configuration error surfaced before any call is
// made.
var knownModels = []string{
	"gemini-pro",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-2.0-flash",
	"gemini-2.5-pro",
	"gemini-2.5-flash",
}

func KnownModel(id string) bool {
	m := strings.ToLower(strings.TrimSpace(id))
	for _, known := range knownModels {
		if m == known {
			return true
		}
	}
	return false
}

func KnownModels() []string {
	out := make([]string, len(knownModels))
	copy(out, knownModels)
	return out
}
