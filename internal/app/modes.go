package app

import "strings"

// ModeFlags are the prompt-augmentation toggles. They only affect the
// outbound prompt; stored messages are never rewritten.
type ModeFlags struct {
	CodeGen bool `yaml:"code_gen" json:"code_gen"`
	Explain bool `yaml:"explain" json:"explain"`
	Debug   bool `yaml:"debug" json:"debug"`
}

func (f ModeFlags) Any() bool {
	return f.CodeGen || f.Explain || f.Debug
}

type ResponseStyle string

const (
	StyleConcise  ResponseStyle = "concise"
	StyleBalanced ResponseStyle = "balanced"
	StyleDetailed ResponseStyle = "detailed"
)

// DefaultStyle is applied when no style was configured.
const DefaultStyle = StyleBalanced

func ParseStyle(value string) (ResponseStyle, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case string(StyleConcise):
		return StyleConcise, true
	case string(StyleBalanced):
		return StyleBalanced, true
	case string(StyleDetailed):
		return StyleDetailed, true
	default:
		return ResponseStyle(""), false
	}
}

func Styles() []ResponseStyle {
	return []ResponseStyle{StyleConcise, StyleBalanced, StyleDetailed}
}
