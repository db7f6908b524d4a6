package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
)

// The model is instructed to answer with bare JSON but routinely wraps it in
// a fenced code block anyway; unwrap before parsing.
var fenceRegex = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n?(.*?)\n?\\s*```$")

func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if match := fenceRegex.FindStringSubmatch(trimmed); match != nil {
		return strings.TrimSpace(match[1])
	}
	return trimmed
}

type payloadKind int

// The two response shapes the model is asked for, plus the failure tag.
// Callers switch on the kind instead of trusting loosely-typed JSON.
const (
	kindInvalid payloadKind = iota
	kindTropes
	kindChatTurn
)

// Turn is one AI reply in a trope conversation. UpdatedSheet is only set
// when the model volunteers a character sheet revision; applying it is the
// caller's decision.
type Turn struct {
	Question     string                `json:"question"`
	Choices      []string              `json:"choices"`
	UpdatedSheet *sheet.CharacterSheet `json:"updatedCharacterSheet,omitempty"`
}

type payload struct {
	kind   payloadKind
	tropes []trope.Trope
	turn   Turn
}

// decodePayload unwraps fences, parses the JSON and tags the result as a
// trope list, a chat turn, or invalid. It never returns an error; malformed
// input is simply tagged invalid.
func decodePayload(raw string) payload {
	var loose struct {
		Tropes []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"tropes"`
		Question              string                `json:"question"`
		Choices               []string              `json:"choices"`
		UpdatedCharacterSheet *sheet.CharacterSheet `json:"updatedCharacterSheet"`
	}

	if err := json.Unmarshal([]byte(stripFences(raw)), &loose); err != nil {
		return payload{kind: kindInvalid}
	}

	if strings.TrimSpace(loose.Question) != "" {
		return payload{
			kind: kindChatTurn,
			turn: Turn{
				Question:     loose.Question,
				Choices:      loose.Choices,
				UpdatedSheet: loose.UpdatedCharacterSheet,
			},
		}
	}

	if loose.Tropes != nil {
		tropes := make([]trope.Trope, 0, len(loose.Tropes))
		for _, t := range loose.Tropes {
			if strings.TrimSpace(t.Name) == "" {
				continue
			}
			tropes = append(tropes, trope.Trope{Name: t.Name, Description: t.Description})
		}
		return payload{kind: kindTropes, tropes: tropes}
	}

	return payload{kind: kindInvalid}
}
