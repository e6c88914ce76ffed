package client

import (
	"context"
	"encoding/json"
	"io"

	"github.com/dmitrijs2005/aihr/internal/client/models"
)

// CandidateAPI is the part of the backend contract used by the candidate
// wizard, in the order the wizard calls it.
type CandidateAPI interface {
	AnalyzeCV(ctx context.Context, id models.Identity, fileName string, file io.Reader) (*models.CVAnalysis, error)
	DetectLevel(ctx context.Context, candidateName string, cv *models.CVAnalysis) (json.RawMessage, error)
	InterviewPlan(ctx context.Context, level json.RawMessage) error
	GenerateQuestions(ctx context.Context, level json.RawMessage, maxQuestions int, lang string) (*models.QuestionSet, error)
	StartInterview(ctx context.Context, req *models.StartInterviewRequest) (string, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string) error
	AnalyzeIntegrity(ctx context.Context, sessionID string) error
	GenerateRecommendation(ctx context.Context, sessionID string) error
}

// AdminAPI is the part of the backend contract used by the dashboard.
type AdminAPI interface {
	Ping(ctx context.Context) error
	ListSessions(ctx context.Context) ([]models.CandidateSession, error)
	UpdateSessionStatus(ctx context.Context, sessionID, internalStatus, publicStatus string) error
	DownloadCV(ctx context.Context, fileName string, w io.Writer) (int64, error)
}

type Client interface {
	CandidateAPI
	AdminAPI
}
