package app

import (
	"strings"

	"github.com/pkg/errors"
)

const personaClause = "You are an expert AI coding assistant."

const (
	clauseCodeGen = "Generate clean, well-commented code"
	clauseExplain = "Provide detailed explanations"
	clauseDebug   = "Help debug and identify issues"
)

var styleClauses = map[ResponseStyle]string{
	StyleConcise:  "Keep responses brief and to the point",
	StyleBalanced: "Provide moderate detail with good examples",
	StyleDetailed: "Provide comprehensive explanations with multiple examples",
}

// PromptBuilder turns a raw prompt plus the active mode flags into the
// augmented prompt sent to the model. Pure: same inputs, same output.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build prefixes the prompt with an instruction directive. The style clause
// is always present; flag clauses are optional. The stored message keeps
// the raw prompt, only the outbound copy is augmented.
func (p *PromptBuilder) Build(prompt string, flags ModeFlags, style ResponseStyle) (string, error) {
	styleClause, ok := styleClauses[style]
	if !ok {
		return "", errors.Wrapf(ErrInvalidConfiguration, "unknown response style %q", style)
	}

	clauses := make([]string, 0, 4)
	if flags.CodeGen {
		clauses = append(clauses, clauseCodeGen)
	}
	if flags.Explain {
		clauses = append(clauses, clauseExplain)
	}
	if flags.Debug {
		clauses = append(clauses, clauseDebug)
	}
	clauses = append(clauses, styleClause)

	directive := personaClause + " " + strings.Join(clauses, ". ") + "."
	return directive + "\n\n" + prompt, nil
}
