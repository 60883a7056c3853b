package domain

// Team represents a cleaned NFL franchise record
type Team struct {
	ID           int        `json:"team_id" csv:"team_id" validate:"required,min=1"`
	Name         string     `json:"name" csv:"name"`
	City         string     `json:"city" csv:"city"`
	Abbreviation string     `json:"abbreviation" csv:"abbreviation"`
	Conference   Conference `json:"conference" csv:"conference" validate:"oneof=AFC NFC Unknown"`
	Division     string     `json:"division" csv:"division"`
}

// Conference represents an NFL conference
type Conference string

const (
	ConferenceAFC     Conference = "AFC"
	ConferenceNFC     Conference = "NFC"
	ConferenceUnknown Conference = "Unknown"
)

// NormalizeConference maps an arbitrary upstream value into the conference
// enum. The second return reports whether the input was already a valid
// member (empty counts as valid because it is defaulted, not coerced).
func NormalizeConference(v string) (Conference, bool) {
	switch Conference(v) {
	case ConferenceAFC:
		return ConferenceAFC, true
	case ConferenceNFC:
		return ConferenceNFC, true
	case ConferenceUnknown, "":
		return ConferenceUnknown, true
	default:
		return ConferenceUnknown, false
	}
}
