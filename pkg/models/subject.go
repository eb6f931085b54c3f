package models

// Subject identifies one of the three JEE exam subjects
type Subject string

const (
	// SubjectPhysics is the physics subject
	SubjectPhysics Subject = "Physics"
	// SubjectChemistry is the chemistry subject
	SubjectChemistry Subject = "Chemistry"
	// SubjectMathematics is the mathematics subject
	SubjectMathematics Subject = "Mathematics"
)

// Subjects lists all subjects in display order
func Subjects() []Subject {
	return []Subject{SubjectPhysics, SubjectChemistry, SubjectMathematics}
}

// IsValid reports whether s is one of the known subjects
func (s Subject) IsValid() bool {
	switch s {
	case SubjectPhysics, SubjectChemistry, SubjectMathematics:
		return true
	}
	return false
}
