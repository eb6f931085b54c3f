package models

// DefaultDailyQuote is shown until the first successful quote refresh
const DefaultDailyQuote = "The logic of IIT is waiting for you, Cheenu."

// SeenQuestionsCap bounds the duplicate-suppression history (FIFO, oldest out)
const SeenQuestionsCap = 50

// UserProgress is the single persisted aggregate of the whole application.
// Field names match the JSON layout of exported backup files, so a backup
// taken from an older build imports cleanly.
type UserProgress struct {
	PhysicsScore         int      `json:"physicsScore"`
	ChemistryScore       int      `json:"chemistryScore"`
	MathematicsScore     int      `json:"mathematicsScore"`
	TotalQuestionsSolved int      `json:"totalQuestionsSolved"`
	DailyQuote           string   `json:"dailyQuote"`
	LastQuoteDate        string   `json:"lastQuoteDate"` // ISO date YYYY-MM-DD of last successful refresh
	SeenQuestions        []string `json:"seenQuestions"`
	Tasks                []Task   `json:"tasks"`
	NotificationsEnabled bool     `json:"notificationsEnabled"`
}

// DefaultProgress returns the state used on first run and as the merge base
// when loading partial payloads saved by older versions.
func DefaultProgress() UserProgress {
	return UserProgress{
		DailyQuote:    DefaultDailyQuote,
		SeenQuestions: []string{},
		Tasks:         []Task{},
	}
}

// Clone returns a deep copy so callers can never alias the store's snapshot
func (p UserProgress) Clone() UserProgress {
	c := p
	c.SeenQuestions = make([]string, len(p.SeenQuestions))
	copy(c.SeenQuestions, p.SeenQuestions)
	c.Tasks = make([]Task, len(p.Tasks))
	copy(c.Tasks, p.Tasks)
	return c
}

// ScoreFor returns the score for the given subject
func (p UserProgress) ScoreFor(subject Subject) int {
	switch subject {
	case SubjectPhysics:
		return p.PhysicsScore
	case SubjectChemistry:
		return p.ChemistryScore
	case SubjectMathematics:
		return p.MathematicsScore
	}
	return 0
}

// IncompleteTaskCount returns the number of tasks not yet completed
func (p UserProgress) IncompleteTaskCount() int {
	count := 0
	for _, t := range p.Tasks {
		if !t.Completed {
			count++
		}
	}
	return count
}
