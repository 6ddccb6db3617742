package workflow

import (
	"context"

	"jobportal/pkg/models"
)

// API is the AI backend the flows call. *client.Client satisfies it.
type API interface {
	ParseResume(ctx context.Context, resumeText string) (*models.ParsedResume, error)
	FindMatchingJobs(ctx context.Context, profile *models.ParsedResume) ([]models.Job, error)
	AnalyzeJobDescription(ctx context.Context, info models.JobInfo) (*models.JobAnalysis, error)
	FindSimilarJobs(ctx context.Context, job models.Job) ([]models.Job, error)
	GenerateResourceContent(ctx context.Context, topic string, audience models.Audience) (string, error)
}
