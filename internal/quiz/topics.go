package quiz

import "github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"

// topicsBySubject is the JEE syllabus catalog offered for targeted practice
var topicsBySubject = map[models.Subject][]string{
	models.SubjectPhysics: {
		"Units & Measurements", "Kinematics", "Laws of Motion", "Work, Energy & Power",
		"Rotational Motion", "Gravitation", "Properties of Matter", "Thermodynamics",
		"Oscillations & Waves", "Electrostatics", "Current Electricity",
		"Magnetism", "EM Induction & AC", "Optics", "Modern Physics", "Electronic Devices",
	},
	models.SubjectChemistry: {
		"Atomic Structure", "Chemical Bonding", "Thermodynamics", "Equilibrium",
		"Redox & Electrochemistry", "Chemical Kinetics", "Surface Chemistry",
		"S & P Block Elements", "D & F Block Elements", "Coordination Compounds",
		"General Organic Chemistry", "Hydrocarbons", "Alcohols & Phenols", "Aldehydes & Ketones", "Biomolecules",
	},
	models.SubjectMathematics: {
		"Sets & Relations", "Complex Numbers", "Matrices & Determinants", "Permutations & Combinations",
		"Binomial Theorem", "Sequences & Series", "Limits & Continuity", "Differentiation",
		"Integral Calculus", "Differential Equations", "Coordinate Geometry",
		"Vector Algebra", "3D Geometry", "Probability", "Trigonometry", "Mathematical Reasoning",
	},
}

// TopicsForSubject returns the topic list for one subject
func TopicsForSubject(subject models.Subject) []string {
	return append([]string(nil), topicsBySubject[subject]...)
}

// TopicCatalog returns the full per-subject topic catalog
func TopicCatalog() map[models.Subject][]string {
	catalog := make(map[models.Subject][]string, len(topicsBySubject))
	for subject := range topicsBySubject {
		catalog[subject] = TopicsForSubject(subject)
	}
	return catalog
}
