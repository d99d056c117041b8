// Package narrative holds what the LLM-backed narrators share: the embedded
// prompts, reply parsing and provider failover.
package narrative

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"vexal/internal/app/ports"
	"vexal/internal/domain/gameclock"

	"gopkg.in/yaml.v3"
)

const (
	MaxTokens   = 500
	Temperature = 0.7
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/turn.txt
var turnPrompt string

var turnTmpl = template.Must(template.New("turn").Parse(turnPrompt))

func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

func RenderTurn(req ports.NarrativeRequest) (string, error) {
	var buf bytes.Buffer
	if err := turnTmpl.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("narrative: render turn prompt: %w", err)
	}
	return buf.String(), nil
}

type reply struct {
	Narrative   string              `yaml:"narrative"`
	TimeAdvance *gameclock.TimeSpec `yaml:"time_advance"`
}

// ParseReply reads the model's YAML answer. Anything that is not a YAML
// document with a narrative field is taken verbatim as the narrative.
func ParseReply(text string) ports.Narrative {
	clean := stripFences(text)
	var r reply
	if err := yaml.Unmarshal([]byte(clean), &r); err == nil && strings.TrimSpace(r.Narrative) != "" {
		out := ports.Narrative{Text: strings.TrimSpace(r.Narrative)}
		if r.TimeAdvance != nil && !r.TimeAdvance.IsZero() {
			if err := r.TimeAdvance.Validate(); err != nil {
				slog.Warn("ignoring model time advance", "error", err)
			} else {
				out.TimeAdvance = r.TimeAdvance
			}
		}
		return out
	}
	return ports.Narrative{Text: clean}
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```yml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
