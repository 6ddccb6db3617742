package models

// ParsedResume is the candidate profile extracted from free resume text.
// Phone and Address are optional; nil means the model did not find them.
type ParsedResume struct {
	FullName   string       `json:"fullName"`
	Email      string       `json:"email"`
	Phone      *string      `json:"phone,omitempty"`
	Address    *string      `json:"address,omitempty"`
	Summary    string       `json:"summary"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
}

// Experience represents one employment record. Dates is free text such as "May 2020 - Present".
type Experience struct {
	JobTitle         string   `json:"jobTitle"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Dates            string   `json:"dates"`
	Responsibilities []string `json:"responsibilities"`
}

// Education represents one credential record
type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	GraduationYear string `json:"graduationYear"`
}

// Clone returns a deep copy of the resume
func (r *ParsedResume) Clone() *ParsedResume {
	if r == nil {
		return nil
	}

	out := *r
	if r.Phone != nil {
		phone := *r.Phone
		out.Phone = &phone
	}
	if r.Address != nil {
		address := *r.Address
		out.Address = &address
	}
	out.Skills = cloneStrings(r.Skills)

	if r.Experience != nil {
		out.Experience = make([]Experience, len(r.Experience))
		for i, exp := range r.Experience {
			exp.Responsibilities = cloneStrings(exp.Responsibilities)
			out.Experience[i] = exp
		}
	}
	if r.Education != nil {
		out.Education = append([]Education(nil), r.Education...)
	}

	return &out
}

// PhoneOrEmpty returns the phone number or "" when absent
func (r *ParsedResume) PhoneOrEmpty() string {
	if r == nil || r.Phone == nil {
		return ""
	}
	return *r.Phone
}

// AddressOrEmpty returns the address or "" when absent
func (r *ParsedResume) AddressOrEmpty() string {
	if r == nil || r.Address == nil {
		return ""
	}
	return *r.Address
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
