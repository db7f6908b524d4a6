package sheet

// Chapter keys double as character sheet field names.
const (
	KeyContext       = "context"
	KeyAcademics     = "academics"
	KeyFamilialNotes = "familialNotes"
	KeySocialNotes   = "socialNotes"
	KeyPassionNotes  = "passionNotes"
)

// Question is a single guided prompt within a chapter. Selecting an option
// produces the sentence prefix+option+"." in the chapter text.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Prefix  string   `json:"prefix"`
}

// Chapter is one onboarding stage covering a single life aspect.
type Chapter struct {
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Placeholder string     `json:"placeholder"`
	Questions   []Question `json:"questions"`
}

// Chapters is the fixed onboarding question bank, walked in order.
var Chapters = []Chapter{
	{
		Key:         KeyContext,
		Title:       "Chapter 1: Setting the Scene",
		Placeholder: `Review your answers and add any other details, e.g., "I'm trying to balance AP classes with my part-time job..."`,
		Questions: []Question{
			{
				Prompt:  "First, which of these best describes you right now?",
				Options: []string{"A high school student", "A college student", "Working full-time", "Working part-time", "Looking for a job", "Taking a gap year"},
				Prefix:  "I am ",
			},
			{
				Prompt:  "And what is your main focus at the moment?",
				Options: []string{"Balancing school and work", "Improving my grades", "College applications", "Focusing on my career", "Exploring new hobbies"},
				Prefix:  "My main focus is ",
			},
		},
	},
	{
		Key:         KeyAcademics,
		Title:       "Chapter 2: The Scholarly Pursuits",
		Placeholder: "Feel free to add more about your academic or work life...",
		Questions: []Question{
			{
				Prompt:  "In school or at work, where do your strengths lie?",
				Options: []string{"In the humanities and arts", "In STEM subjects", "In social situations and networking", "In practical, hands-on tasks"},
				Prefix:  "My strengths lie ",
			},
			{
				Prompt:  "What is your biggest challenge in this area?",
				Options: []string{"Procrastination", "Difficult coursework", "Test anxiety or performance pressure", "Lack of motivation", "Time management"},
				Prefix:  "My biggest challenge is ",
			},
		},
	},
	{
		Key:         KeyFamilialNotes,
		Title:       "Chapter 3: The Family Dynamic",
		Placeholder: "You can add more about your family here...",
		Questions: []Question{
			{
				Prompt:  "How would you describe your role in your family?",
				Options: []string{"The responsible oldest child", "The free-spirited youngest child", "The independent only child", "The peacemaker"},
				Prefix:  "In my family, I am often seen as ",
			},
			{
				Prompt:  "What is your family life like?",
				Options: []string{"Generally supportive and close", "A bit complicated right now", "Loving but with high expectations", "Independent; we all do our own thing"},
				Prefix:  "My family life is ",
			},
		},
	},
	{
		Key:         KeySocialNotes,
		Title:       "Chapter 4: The Social Circle",
		Placeholder: "Add any other thoughts about your friendships or social experiences...",
		Questions: []Question{
			{
				Prompt:  "How would you describe your group of friends?",
				Options: []string{"A large, diverse group", "A few very close friends", "Mostly online friends", "I'm currently looking for my people"},
				Prefix:  "I have ",
			},
			{
				Prompt:  "And in social settings, you tend to be...",
				Options: []string{"An outgoing extrovert", "A thoughtful introvert", "The planner and organizer", "The quiet observer", "The life of the party"},
				Prefix:  "I tend to be ",
			},
		},
	},
	{
		Key:         KeyPassionNotes,
		Title:       "Chapter 5: The Inner Fire",
		Placeholder: "Is there anything else you're passionate about? Write it here...",
		Questions: []Question{
			{
				Prompt:  "Outside of school or work, what truly excites you?",
				Options: []string{"Creative pursuits like art or writing", "Music, either playing or listening", "Competitive sports or fitness", "Video games and digital worlds", "Learning new things", "Helping others"},
				Prefix:  "I am passionate about ",
			},
			{
				Prompt:  "What do you dream of doing more of?",
				Options: []string{"Traveling and exploring", "Starting my own project or business", "Mastering a skill", "Making a difference in my community", "Just having more time to relax"},
				Prefix:  "I dream of ",
			},
		},
	},
}
