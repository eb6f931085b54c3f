package models

// Question is a generated multiple-choice practice question. It lives for one
// display cycle; only its text is remembered for duplicate suppression.
type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
	Subject            Subject  `json:"subject"`
	Topic              string   `json:"topic,omitempty"`
}
