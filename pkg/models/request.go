package models

import "encoding/json"

// ProxyRequest is the envelope accepted by the AI proxy endpoint
type ProxyRequest struct {
	Endpoint string          `json:"endpoint"`
	Payload  json.RawMessage `json:"payload"`
}

// ParseResumePayload is the payload of parseResume
type ParseResumePayload struct {
	ResumeText string `json:"resumeText" validate:"required,notblank"`
}

// FindMatchingJobsPayload is the payload of findMatchingJobs
type FindMatchingJobsPayload struct {
	Profile *ParsedResume `json:"profile" validate:"required"`
}

// AnalyzeJobPayload is the payload of analyzeJobDescription
type AnalyzeJobPayload struct {
	JobInfo *JobInfo `json:"jobInfo" validate:"required"`
}

// FindSimilarJobsPayload is the payload of findSimilarJobs
type FindSimilarJobsPayload struct {
	Job *JobSummary `json:"job" validate:"required"`
}

// ResourceContentPayload is the payload of generateResourceContent
type ResourceContentPayload struct {
	Topic    string   `json:"topic" validate:"required,notblank"`
	Audience Audience `json:"audience" validate:"required,audience"`
}
