package workflow

import (
	"strings"

	"jobportal/pkg/models"
)

// W4Form holds the employee fields of a W-4 prefilled from a parsed profile
type W4Form struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Street       string `json:"street"`
	CityStateZip string `json:"cityStateZip"`
	Signature    string `json:"signature"`
}

// W4Prefill splits the profile name into first token and remainder, and the
// address at its first comma. Addresses are assumed to read "Street, City, State ZIP".
func W4Prefill(profile *models.ParsedResume) W4Form {
	if profile == nil {
		return W4Form{}
	}

	var form W4Form
	if names := strings.Fields(profile.FullName); len(names) > 0 {
		form.FirstName = names[0]
		form.LastName = strings.Join(names[1:], " ")
	}

	street, rest, _ := strings.Cut(profile.AddressOrEmpty(), ",")
	form.Street = strings.TrimSpace(street)
	form.CityStateZip = strings.TrimSpace(rest)
	form.Signature = "e-Signed by " + profile.FullName

	return form
}
