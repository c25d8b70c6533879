package assistant

import (
	"encoding/json"
	"strings"
)

// ModelReply is the model's structured intent: an optional read-only
// SQL statement and the explanation text carrying {{column}}
// placeholders.
type ModelReply struct {
	SQL         string `json:"sql,omitempty"`
	Explanation string `json:"explicacao"`
}

// ParseModelReply extracts a ModelReply from raw model output. Three
// shapes are tolerated: a pure JSON object, JSON wrapped in markdown
// fences, and plain prose. When no JSON object can be recovered, the
// whole text becomes the explanation so the assistant still answers
// something.
func ParseModelReply(raw string) ModelReply {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ModelReply{}
	}

	if candidate, ok := outermostObject(trimmed); ok {
		var probe struct {
			SQL         string `json:"sql"`
			Explicacao  string `json:"explicacao"`
			Explanation string `json:"explanation"`
		}
		if err := json.Unmarshal([]byte(candidate), &probe); err == nil {
			explanation := probe.Explicacao
			if explanation == "" {
				explanation = probe.Explanation
			}
			if probe.SQL != "" || explanation != "" {
				return ModelReply{
					SQL:         strings.TrimSpace(probe.SQL),
					Explanation: explanation,
				}
			}
		}
	}

	return ModelReply{Explanation: trimmed}
}

// outermostObject returns the substring from the first '{' to the
// last '}', which strips markdown fences and any prose around the
// object in one move.
func outermostObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
