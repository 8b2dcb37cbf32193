package scoring

// Presentation thresholds for score classification.
const (
	hotThreshold  = 80
	warmThreshold = 40
)

// Label returns the temperature label shown next to the score.
func Label(score int) string {
	switch {
	case score >= hotThreshold:
		return "Caliente"
	case score >= warmThreshold:
		return "Tibio"
	default:
		return "Frío"
	}
}

// Color returns the semantic color token for a score. Tokens are opaque to
// the backend; the frontend maps them to its visual vocabulary.
func Color(score int) string {
	switch {
	case score >= hotThreshold:
		return "red"
	case score >= warmThreshold:
		return "yellow"
	default:
		return "blue"
	}
}
