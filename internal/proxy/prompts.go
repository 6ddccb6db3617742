package proxy

import (
	"encoding/json"
	"fmt"

	"jobportal/pkg/models"
)

const (
	careerCoachPersona   = "You are an expert career coach."
	hiringManagerPersona = "You are an expert hiring manager."
)

func personaFor(audience models.Audience) string {
	if audience == models.AudienceJobSeeker {
		return careerCoachPersona
	}
	return hiringManagerPersona
}

func parseResumePrompt(resumeText string) string {
	return "Parse the following resume text: \n\n" + resumeText
}

func matchingJobsPrompt(profile *models.ParsedResume) (string, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Based on this profile, find 3 fictional jobs: %s", data), nil
}

func analyzeJobPrompt(info *models.JobInfo) (string, error) {
	data, err := json.Marshal(info)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Analyze this job posting: %s", data), nil
}

func similarJobsPrompt(job *models.JobSummary) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Find 3 similar fictional jobs for this posting: %s", data), nil
}

func resourcePrompt(topic string) string {
	return fmt.Sprintf("Provide a guide on: %q.", topic)
}
