package wizard

import (
	"context"
	"encoding/json"
	"io"

	"github.com/dmitrijs2005/aihr/internal/client/client"
	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/client/pipeline"
)

// Stage names of the setup pipeline, in execution order.
const (
	StageAnalyze           = "analyze"
	StageDetectLevel       = "detect-level"
	StageInterviewPlan     = "interview-plan"
	StageGenerateQuestions = "generate-questions"
	StageStartInterview    = "start-interview"
)

// setup is threaded through the stages; each stage reads what the previous
// ones stored.
type setup struct {
	identity     models.Identity
	lang         string
	maxQuestions int
	candidateID  string
	fileName     string
	file         io.Reader

	cv        *models.CVAnalysis
	level     json.RawMessage
	questions *models.QuestionSet
	sessionID string
}

func setupStages(api client.CandidateAPI) []pipeline.Stage[setup] {
	return []pipeline.Stage[setup]{
		{
			Name: StageAnalyze,
			Run: func(ctx context.Context, s *setup) (err error) {
				s.cv, err = api.AnalyzeCV(ctx, s.identity, s.fileName, s.file)
				return err
			},
			Validate: func(s *setup) error {
				if s.cv == nil {
					return models.ErrEmptyResult
				}
				return s.cv.Validate()
			},
		},
		{
			Name: StageDetectLevel,
			Run: func(ctx context.Context, s *setup) (err error) {
				s.level, err = api.DetectLevel(ctx, s.identity.Name, s.cv)
				return err
			},
			Validate: func(s *setup) error {
				return models.ValidateResult(s.level)
			},
		},
		{
			Name: StageInterviewPlan,
			Run: func(ctx context.Context, s *setup) error {
				return api.InterviewPlan(ctx, s.level)
			},
		},
		{
			Name: StageGenerateQuestions,
			Run: func(ctx context.Context, s *setup) (err error) {
				s.questions, err = api.GenerateQuestions(ctx, s.level, s.maxQuestions, s.lang)
				return err
			},
			Validate: func(s *setup) error {
				if s.questions == nil {
					return models.ErrNoQuestions
				}
				return s.questions.Validate()
			},
		},
		{
			Name: StageStartInterview,
			Run: func(ctx context.Context, s *setup) (err error) {
				s.sessionID, err = api.StartInterview(ctx, &models.StartInterviewRequest{
					CandidateID:    s.candidateID,
					CandidateName:  s.identity.Name,
					CandidatePhone: s.identity.Phone,
					CandidateEmail: s.identity.Email,
					QuestionSet:    *s.questions,
					Lang:           s.lang,
					CVPath:         s.cv.CVPath,
				})
				return err
			},
			Validate: func(s *setup) error {
				if s.sessionID == "" {
					return models.ErrNoSessionID
				}
				return nil
			},
		},
	}
}
