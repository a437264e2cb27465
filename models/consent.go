package models

// Consent records which cookie categories an anonymous client accepted.
type Consent struct {
	Necessary bool `json:"necessary"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// DefaultConsent is what a client has before answering the banner.
func DefaultConsent() Consent {
	return Consent{Necessary: true}
}

func FullConsent() Consent {
	return Consent{Necessary: true, Analytics: true, Marketing: true}
}
