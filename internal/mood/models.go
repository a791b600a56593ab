package mood

// Result is the scored mood attached to a post. Field names follow the
// stored jsonb document.
type Result struct {
	Percentage  int    `json:"percentage"`
	Label       string `json:"label"`
	Description string `json:"description"`
	ColorHex    string `json:"colorHex"`
}

// Fallback is the fixed result returned whenever the scoring service
// cannot produce one. Callers never see a scoring failure.
func Fallback() Result {
	return Result{
		Percentage:  69,
		Label:       "Mysteriously Vague",
		Description: "The AI is confused by your overwhelming aura.",
		ColorHex:    "#A855F7",
	}
}
