package authors

import "strings"

// Validator is the final filter over canonical display names. A
// rejected name discards its whole cluster, including article edges.
type Validator struct {
	keywords []string
}

func NewValidator(keywords []string) *Validator {
	lowered := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			lowered = append(lowered, keyword)
		}
	}
	return &Validator{keywords: lowered}
}

// IsValid rejects single-token names, all-uppercase names, names
// containing '|', '/', or '#', and names containing an organizational
// keyword.
func (v *Validator) IsValid(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if len(strings.Fields(name)) < 2 {
		return false
	}
	if isAllUpper(name) {
		return false
	}
	if strings.ContainsAny(name, "|/#") {
		return false
	}

	lowered := strings.ToLower(name)
	for _, keyword := range v.keywords {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}
	return true
}
