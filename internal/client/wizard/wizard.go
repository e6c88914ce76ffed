// Package wizard drives the candidate interview: identity and CV upload,
// the setup pipeline, the timed question loop and finalization.
//
// All state lives in a Controller. The presentation layer implements View
// and feeds user input through Start, SetDraft and Submit; the countdown
// delivers expiries from its own goroutine.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/aihr/internal/client/client"
	"github.com/dmitrijs2005/aihr/internal/client/countdown"
	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/client/pipeline"
	"github.com/dmitrijs2005/aihr/internal/common"
	"github.com/dmitrijs2005/aihr/internal/logging"
	"github.com/google/uuid"
)

type Step int

const (
	StepUpload Step = iota
	StepLoading
	StepInterview
	StepFinalizing
	StepFinal
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepLoading:
		return "loading"
	case StepInterview:
		return "interview"
	case StepFinalizing:
		return "finalizing"
	case StepFinal:
		return "final"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Message keys passed to View.Alert.
const (
	MsgFields      = "err_fields"
	MsgPhone       = "err_phone"
	MsgFile        = "err_file"
	MsgGeneric     = "err_generic"
	MsgEmptyAnswer = "err_empty_answer"
	MsgSubmit      = "err_submit"
	MsgTimeUp      = "time_up"
)

var (
	ErrEmptyAnswer = errors.New("empty answer")
	ErrNotCurrent  = errors.New("question already submitted")
)

// View renders the wizard. Methods may be called from the countdown
// goroutine.
type View interface {
	ShowStep(step Step)
	ShowQuestion(index, total int, text string)
	ShowTimer(remaining time.Duration)
	Alert(key string)
}

type Options struct {
	MaxQuestions      int
	QuestionTimeLimit time.Duration
	Tick              time.Duration
}

type Controller struct {
	api   client.CandidateAPI
	view  View
	log   logging.Logger
	opts  Options
	timer *countdown.Countdown
	setup *pipeline.Pipeline[setup]

	mu        sync.Mutex
	ctx       context.Context
	step      Step
	sessionID string
	questions []models.Question
	index     int
	draft     string
	token     countdown.Token
	armed     bool
	done      chan struct{}
}

func NewController(api client.CandidateAPI, view View, log logging.Logger, opts Options) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	if opts.MaxQuestions <= 0 {
		opts.MaxQuestions = 5
	}
	if opts.QuestionTimeLimit <= 0 {
		opts.QuestionTimeLimit = 120 * time.Second
	}
	return &Controller{
		api:   api,
		view:  view,
		log:   log,
		opts:  opts,
		timer: countdown.New(opts.Tick),
		setup: pipeline.New(log, setupStages(api)...),
		step:  StepUpload,
		done:  make(chan struct{}),
	}
}

// Step returns the current wizard step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// SessionID is set once the interview has started.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Done is closed when the final step is reached.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Start validates the upload form and runs the setup pipeline. On any
// pipeline failure the wizard returns to the upload step with nothing kept.
func (c *Controller) Start(ctx context.Context, id models.Identity, lang, cvPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepUpload {
		return common.ErrWrongStep
	}

	if err := models.ValidateUpload(id, cvPath); err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			c.view.Alert(alertFor(ve.Field))
		}
		return err
	}

	f, err := os.Open(cvPath)
	if err != nil {
		c.view.Alert(MsgFile)
		return fmt.Errorf("%w: %v", &models.ValidationError{Field: models.FieldFile}, err)
	}
	defer f.Close()

	if lang == "" {
		lang = "en"
	}

	c.ctx = ctx
	c.setStep(StepLoading)

	s := &setup{
		identity:     id,
		lang:         lang,
		maxQuestions: c.opts.MaxQuestions,
		candidateID:  uuid.NewString(),
		fileName:     filepath.Base(cvPath),
		file:         f,
	}
	if _, err := c.setup.Run(ctx, s); err != nil {
		c.log.Error(ctx, "interview setup failed", "candidate_id", s.candidateID, "error", err)
		c.reset()
		c.setStep(StepUpload)
		c.view.Alert(MsgGeneric)
		return err
	}

	c.log.Info(ctx, "interview started", "session_id", s.sessionID, "questions", len(s.questions.Questions))
	c.sessionID = s.sessionID
	c.questions = s.questions.Questions
	c.index = 0
	c.setStep(StepInterview)
	c.loadQuestion()
	return nil
}

// SetDraft replaces the answer typed so far for the current question.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepInterview {
		c.draft = text
	}
}

// Draft returns the answer typed so far.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Submit sends the current draft. An empty draft is refused. If the
// countdown has already claimed the question the call is a no-op returning
// ErrNotCurrent.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepInterview {
		return common.ErrWrongStep
	}
	if c.draft == "" {
		c.view.Alert(MsgEmptyAnswer)
		return ErrEmptyAnswer
	}

	remaining := time.Duration(0)
	if c.armed {
		var ok bool
		remaining, ok = c.timer.Cancel(c.token)
		if !ok {
			return ErrNotCurrent
		}
		c.armed = false
	}

	if err := c.submit(ctx); err != nil {
		c.view.Alert(MsgSubmit)
		if remaining > 0 {
			c.arm(remaining)
		}
		return err
	}
	return nil
}

func (c *Controller) onTimer(e countdown.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepInterview || !c.armed || e.Token != c.token {
		return
	}
	if !e.Expired {
		c.view.ShowTimer(e.Remaining)
		return
	}

	c.armed = false
	c.view.ShowTimer(0)
	c.view.Alert(MsgTimeUp)
	if err := c.submit(c.ctx); err != nil {
		c.view.Alert(MsgSubmit)
	}
}

// submit posts the draft and advances. Caller holds mu and has claimed the
// countdown.
func (c *Controller) submit(ctx context.Context) error {
	if err := c.api.SubmitAnswer(ctx, c.sessionID, c.draft); err != nil {
		c.log.Error(ctx, "submit answer failed", "session_id", c.sessionID, "question", c.index, "error", err)
		return err
	}
	c.index++
	c.loadQuestion()
	return nil
}

func (c *Controller) loadQuestion() {
	c.draft = ""
	if c.index >= len(c.questions) {
		c.finalize()
		return
	}
	c.view.ShowQuestion(c.index, len(c.questions), c.questions[c.index].Question)
	c.arm(c.opts.QuestionTimeLimit)
}

func (c *Controller) arm(limit time.Duration) {
	c.token = c.timer.Start(c.index, limit, c.onTimer)
	c.armed = true
}

// finalize runs integrity analysis and then the recommendation. Failures
// are logged; the final step is reached regardless.
func (c *Controller) finalize() {
	c.setStep(StepFinalizing)
	ctx := c.ctx

	if err := c.api.AnalyzeIntegrity(ctx, c.sessionID); err != nil {
		c.log.Error(ctx, "integrity analysis failed", "session_id", c.sessionID, "error", err)
	} else if err := c.api.GenerateRecommendation(ctx, c.sessionID); err != nil {
		c.log.Error(ctx, "recommendation failed", "session_id", c.sessionID, "error", err)
	}

	c.setStep(StepFinal)
	close(c.done)
}

// Close stops the countdown.
func (c *Controller) Close() {
	c.timer.Stop()
}

func (c *Controller) setStep(s Step) {
	c.step = s
	c.view.ShowStep(s)
}

func (c *Controller) reset() {
	c.sessionID = ""
	c.questions = nil
	c.index = 0
	c.draft = ""
	c.armed = false
}

func alertFor(field string) string {
	switch field {
	case models.FieldPhone:
		return MsgPhone
	case models.FieldFile:
		return MsgFile
	default:
		return MsgFields
	}
}
