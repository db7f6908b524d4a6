// Package symbol maps life-aspect phrases to decorative glyphs used across
// question options and trope names.
package symbol

import "strings"

// Default is returned when no phrase in the table matches.
const Default = "✨"

// Synchronicity marks moments where multiple tropes overlap.
const Synchronicity = "☯️"

// lifeSymbols pairs a lowercase phrase with its glyph. Matching is first-hit
// substring, so order matters for overlapping phrases.
var lifeSymbols = []struct {
	phrase string
	glyph  string
}{
	{"high school student", "📚"},
	{"college student", "🎓"},
	{"working full-time", "💼"},
	{"working part-time", "⏰"},
	{"looking for a job", "🔍"},
	{"taking a gap year", "🌍"},

	{"humanities and arts", "🎨"},
	{"stem subjects", "🔬"},
	{"social situations", "🤝"},
	{"practical tasks", "🔧"},

	{"procrastination", "⏳"},
	{"difficult coursework", "📖"},
	{"test anxiety", "😰"},
	{"lack of motivation", "💭"},
	{"time management", "⏰"},

	{"responsible oldest", "👑"},
	{"free-spirited youngest", "🦋"},
	{"independent only", "🌟"},
	{"peacemaker", "☮️"},

	{"large diverse group", "👥"},
	{"few close friends", "💎"},
	{"online friends", "💻"},
	{"looking for people", "🔍"},

	{"outgoing extrovert", "🌞"},
	{"thoughtful introvert", "🌙"},
	{"planner organizer", "📋"},
	{"quiet observer", "👁️"},
	{"life of party", "🎉"},

	{"creative pursuits", "🎨"},
	{"music", "🎵"},
	{"sports fitness", "⚽"},
	{"video games", "🎮"},
	{"learning", "📚"},
	{"helping others", "❤️"},

	{"traveling exploring", "✈️"},
	{"own project business", "🚀"},
	{"mastering skill", "🏆"},
	{"community difference", "🌍"},
	{"time to relax", "🧘"},
}

// ForText returns the glyph for the first table phrase contained in text,
// case-insensitively, or Default when nothing matches.
func ForText(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range lifeSymbols {
		if strings.Contains(lower, entry.phrase) {
			return entry.glyph
		}
	}
	return Default
}
