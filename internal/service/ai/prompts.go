package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkwell-labs/tropelens/backend/internal/model/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
)

const analystSystemPrompt = `You are an expert narrative analyst and literary critic. Your task is to analyze a user-provided 'character sheet' and identify the 3 to 5 most prominent TV Tropes that describe this person's current life situation.

Focus on their primary struggles, passions, and social dynamics. Do not be literal; infer the underlying archetype. For each trope you identify, provide a one-sentence, user-facing description of what that trope means in this context.

Include relevant symbols (emojis) in your trope names when appropriate to make them more visually engaging. For example: "🎭 The Reluctant Hero" or "📚 The Academic Overachiever".

Your response MUST be a valid JSON object with a single key "tropes", which is an array of objects. Each object must have two keys: "name" (string) and "description" (string). Ensure all string values in the JSON are properly escaped, especially for the "description".`

const coachSystemPrompt = `You are an insightful and empathetic life coach AI. Your goal is to help the user explore their identity by asking one targeted, open-ended question based on their profile and recent conversation.

INSTRUCTIONS:
1. Analyze all context to identify a point of tension, a recent change, or an unexplored passion.
2. Formulate a single, thoughtful question about this topic.
3. Propose 3-4 plausible answer choices. Include relevant symbols (emojis) in the choices when appropriate to make them more engaging.
4. If the conversation reveals new insights about the user that should update their character sheet, include an "updatedCharacterSheet" field with the modified data.
5. Your response MUST be a single, valid JSON object with these keys:
   - "question" (string): The follow-up question
   - "choices" (array of strings): Answer options with symbols when appropriate
   - "updatedCharacterSheet" (optional object): Only include if significant new information emerges

IMPORTANT: Only update the character sheet if the conversation reveals substantial new information that wasn't previously captured. Minor clarifications don't warrant updates.`

// historyWindow bounds how much transcript the coach prompt carries.
const historyWindow = 6

func buildAnalystQuery(cs sheet.CharacterSheet) string {
	return fmt.Sprintf("Character Sheet Data:\n---\n%s\n---", marshalIndented(cs))
}

func buildCoachQuery(cs sheet.CharacterSheet, tropeName string, transcript []chat.Message) string {
	topic := strings.TrimSpace(tropeName)
	if topic == "" {
		topic = "General conversation"
	}

	recent := transcript
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	window := make([]map[string]any, 0, len(recent))
	for _, msg := range recent {
		entry := map[string]any{"role": msg.Role, "content": msg.Content}
		if len(msg.Choices) > 0 {
			entry["choices"] = msg.Choices
		}
		window = append(window, entry)
	}

	return fmt.Sprintf(
		"CONTEXT:\n- User Profile: %s\n- Current Trope Being Discussed: %s\n- Recent Conversation History: %s",
		marshalIndented(cs), topic, marshalIndented(window),
	)
}

func marshalIndented(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
