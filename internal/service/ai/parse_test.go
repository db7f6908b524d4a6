package ai

import "testing"

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"padded", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"no closing fence", "```json\n{\"a\":1}", "```json\n{\"a\":1}"},
	}

	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("%s: stripFences = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDecodePayloadTropes(t *testing.T) {
	raw := "```json\n{\"tropes\":[{\"name\":\"🎓 The Determined Scholar\",\"description\":\"Grades first.\"},{\"name\":\"🌙 The Thoughtful Introvert\",\"description\":\"Quiet strength.\"}]}\n```"

	result := decodePayload(raw)
	if result.kind != kindTropes {
		t.Fatalf("kind = %v, want kindTropes", result.kind)
	}
	if len(result.tropes) != 2 {
		t.Fatalf("got %d tropes, want 2", len(result.tropes))
	}
	if result.tropes[0].Name != "🎓 The Determined Scholar" {
		t.Errorf("first trope name = %q", result.tropes[0].Name)
	}
}

func TestDecodePayloadChatTurn(t *testing.T) {
	raw := `{"question":"What drives that focus?","choices":["📚 Ambition","😰 Pressure","🤷 Habit"]}`

	result := decodePayload(raw)
	if result.kind != kindChatTurn {
		t.Fatalf("kind = %v, want kindChatTurn", result.kind)
	}
	if result.turn.Question != "What drives that focus?" {
		t.Errorf("question = %q", result.turn.Question)
	}
	if len(result.turn.Choices) != 3 {
		t.Errorf("got %d choices, want 3", len(result.turn.Choices))
	}
	if result.turn.UpdatedSheet != nil {
		t.Error("unexpected updated sheet")
	}
}

func TestDecodePayloadChatTurnWithSheetUpdate(t *testing.T) {
	raw := `{"question":"q","choices":["a"],"updatedCharacterSheet":{"context":"I am a college student.","academics":"","familialNotes":"","socialNotes":"","passionNotes":""}}`

	result := decodePayload(raw)
	if result.kind != kindChatTurn {
		t.Fatalf("kind = %v, want kindChatTurn", result.kind)
	}
	if result.turn.UpdatedSheet == nil {
		t.Fatal("expected updated sheet")
	}
	if result.turn.UpdatedSheet.Context != "I am a college student." {
		t.Errorf("updated context = %q", result.turn.UpdatedSheet.Context)
	}
}

func TestDecodePayloadInvalid(t *testing.T) {
	cases := []string{
		"",
		"not json at all",
		`{"tropes":`,
		`{"unrelated":true}`,
		"```json\ntruncated",
	}

	for _, raw := range cases {
		if result := decodePayload(raw); result.kind != kindInvalid {
			t.Errorf("decodePayload(%q).kind = %v, want kindInvalid", raw, result.kind)
		}
	}
}

func TestDecodePayloadSkipsNamelessTropes(t *testing.T) {
	raw := `{"tropes":[{"name":"","description":"orphan"},{"name":"Kept","description":"ok"}]}`

	result := decodePayload(raw)
	if result.kind != kindTropes {
		t.Fatalf("kind = %v, want kindTropes", result.kind)
	}
	if len(result.tropes) != 1 || result.tropes[0].Name != "Kept" {
		t.Errorf("tropes = %+v, want only the named entry", result.tropes)
	}
}
