package models

// JobStatus is the review state of a posting
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusApproved JobStatus = "approved"
	JobStatusRejected JobStatus = "rejected"
)

// IsTerminal reports whether no further review transition is possible
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusApproved || s == JobStatusRejected
}

// Job represents a posting, either AI-sourced or employer-submitted.
// Analysis is nil for AI-matched jobs.
type Job struct {
	ID          string       `json:"id"`
	JobTitle    string       `json:"jobTitle"`
	Company     string       `json:"company"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Skills      []string     `json:"skills"`
	Status      JobStatus    `json:"status"`
	Analysis    *JobAnalysis `json:"analysis"`
}

// JobListing is a job as returned by the model, before the client assigns id, status and analysis
type JobListing struct {
	JobTitle    string   `json:"jobTitle"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// JobAnalysis is the model's feedback on an employer draft
type JobAnalysis struct {
	SuggestedSkills   []string `json:"suggestedSkills"`
	SuggestedCategory string   `json:"suggestedCategory"`
	ClarityFeedback   string   `json:"clarityFeedback"`
}

// JobInfo is the employer draft sent for analysis
type JobInfo struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// JobSummary identifies a job for the similar-jobs query; skills and review fields are not sent
type JobSummary struct {
	JobTitle    string `json:"jobTitle" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Summary strips the review fields of a job
func (j Job) Summary() JobSummary {
	return JobSummary{
		JobTitle:    j.JobTitle,
		Company:     j.Company,
		Location:    j.Location,
		Description: j.Description,
	}
}

// Clone returns a deep copy of the job
func (j Job) Clone() Job {
	out := j
	out.Skills = cloneStrings(j.Skills)
	if j.Analysis != nil {
		analysis := *j.Analysis
		analysis.SuggestedSkills = cloneStrings(j.Analysis.SuggestedSkills)
		out.Analysis = &analysis
	}
	return out
}
