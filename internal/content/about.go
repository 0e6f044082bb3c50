package content

// DefaultAbout is used when the data directory has no about.json.
var DefaultAbout = About{
	Name: "Teh Chun Shen",
	Intro: `I like building things that sit somewhere between engineering and storytelling.
	Most projects start as a small curiosity, a tool I wanted or a question I could not let go of,
	and grow into a reason to learn a new language, framework or field.
	Away from the keyboard I am usually sketching, reading, or chasing the next competition.`,
	Words: []string{
		"Software Engineer",
		"Problem Solver",
		"Lifelong Learner",
	},
}
