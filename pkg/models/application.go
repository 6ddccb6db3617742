package models

// ApplicationStatus is the seeker-side lifecycle of an application
type ApplicationStatus string

const (
	ApplicationApplied       ApplicationStatus = "Applied"
	ApplicationUnderReview   ApplicationStatus = "Under Review"
	ApplicationInterview     ApplicationStatus = "Interview"
	ApplicationOfferExtended ApplicationStatus = "Offer Extended"
	ApplicationClosed        ApplicationStatus = "Closed"
)

// Application is a seeker's pursuit of one job. Job is a snapshot taken when applying.
type Application struct {
	Job         Job               `json:"job"`
	Status      ApplicationStatus `json:"status"`
	AppliedDate string            `json:"appliedDate"`
}

// Audience selects the persona used for resource content
type Audience string

const (
	AudienceJobSeeker Audience = "Job Seeker"
	AudienceEmployer  Audience = "Employer"
)

// Valid reports whether the audience is one of the known personas
func (a Audience) Valid() bool {
	return a == AudienceJobSeeker || a == AudienceEmployer
}
