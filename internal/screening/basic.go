package screening

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwalitptl/cancerguard-api/internal/model"
)

// TotalQuestions is the fixed first question plus seven generated ones.
const TotalQuestions = 8

// FirstQuestion is asked before any generated question.
var FirstQuestion = model.Question{
	Question: "Which part of your body is affected?",
	Options: []string{
		"Skin (mole, lesion, or unusual growth)",
		"Throat (persistent sore throat, difficulty swallowing)",
		"Breast (lump, changes in size or shape)",
		"I'm not sure, but I have concerning symptoms",
	},
}

type BasicState int

const (
	// BasicAnswering waits for the answer to Current().
	BasicAnswering BasicState = iota
	// BasicAssessmentPending holds an assessment that is not saved yet.
	BasicAssessmentPending
	// BasicComplete has a saved result.
	BasicComplete
)

func (s BasicState) String() string {
	switch s {
	case BasicAnswering:
		return "answering"
	case BasicAssessmentPending:
		return "assessment-pending"
	case BasicComplete:
		return "complete"
	}
	return fmt.Sprintf("BasicState(%d)", int(s))
}

// BasicFlow is the eight question questionnaire.
type BasicFlow struct {
	api API

	mu         sync.Mutex
	busy       bool
	state      BasicState
	bodyPart   string
	questions  []model.Question
	answers    []string
	assessment *model.Assessment
	result     *model.TestResult
}

func NewBasicFlow(api API) *BasicFlow {
	return &BasicFlow{
		api:       api,
		state:     BasicAnswering,
		questions: []model.Question{FirstQuestion},
	}
}

// begin marks the flow busy or reports that it already is.
func (f *BasicFlow) begin() error {
	if f.busy {
		return ErrBusy
	}
	f.busy = true
	return nil
}

func (f *BasicFlow) State() BasicState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Step is the zero based index of the question awaiting an answer.
func (f *BasicFlow) Step() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.answers)
}

func (f *BasicFlow) BodyPart() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodyPart
}

// Current returns the question awaiting an answer.
func (f *BasicFlow) Current() (model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != BasicAnswering {
		return model.Question{}, ErrWrongState
	}
	return f.questions[len(f.answers)], nil
}

func (f *BasicFlow) Assessment() *model.Assessment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assessment
}

func (f *BasicFlow) Result() *model.TestResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Transcript returns the answered questions in order.
func (f *BasicFlow) Transcript() []model.QAPair {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transcript()
}

func (f *BasicFlow) transcript() []model.QAPair {
	qa := make([]model.QAPair, len(f.answers))
	for i, a := range f.answers {
		qa[i] = model.QAPair{Question: f.questions[i].Question, Answer: a}
	}
	return qa
}

func (f *BasicFlow) questionTexts(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = f.questions[i].Question
	}
	return out
}

// Answer records the answer to the current question and moves on. After
// the last answer it fetches the assessment and saves the result. On any
// failure the answer is discarded and the flow stays on the same step.
func (f *BasicFlow) Answer(ctx context.Context, answer string) error {
	f.mu.Lock()
	if f.state != BasicAnswering {
		f.mu.Unlock()
		return ErrWrongState
	}
	if err := f.begin(); err != nil {
		f.mu.Unlock()
		return err
	}
	step := len(f.answers)
	if !validOption(f.questions[step].Options, answer) {
		f.busy = false
		f.mu.Unlock()
		return ErrInvalidAnswer
	}

	bodyPart := f.bodyPart
	if step == 0 {
		bodyPart = DetectBodyPart(answer)
	}
	answers := append(append([]string{}, f.answers...), answer)
	last := len(answers) == TotalQuestions
	// a different body part invalidates the questions generated for the old one
	reuse := len(f.questions) > len(answers) && (step != 0 || bodyPart == f.bodyPart)
	questions := f.questionTexts(len(answers))
	f.mu.Unlock()

	var (
		next       *model.Question
		assessment *model.Assessment
		err        error
	)
	switch {
	case last:
		assessment, err = f.api.GenerateAssessment(ctx, model.GenerateAssessmentRequest{
			BodyPart:  bodyPart,
			Questions: questions,
			Answers:   answers,
		})
	case !reuse:
		next, err = f.api.GenerateQuestion(ctx, model.GenerateQuestionRequest{
			BodyPart:          bodyPart,
			PreviousQuestions: questions,
			PreviousAnswers:   answers,
		})
		if err == nil && len(next.Options) != 4 {
			err = fmt.Errorf("generated question has %d options, want 4", len(next.Options))
		}
	}

	f.mu.Lock()
	f.busy = false
	if err != nil {
		f.mu.Unlock()
		return err
	}

	if step == 0 && bodyPart != f.bodyPart {
		f.questions = f.questions[:1]
	}
	f.bodyPart = bodyPart
	f.answers = answers
	switch {
	case last:
		f.assessment = assessment
		f.state = BasicAssessmentPending
	case next != nil:
		f.questions = append(f.questions[:len(answers)], *next)
	}
	f.mu.Unlock()

	if last {
		return f.Save(ctx)
	}
	return nil
}

// Previous discards the last answer. Questions already fetched are kept, so
// moving forward again shows the same question.
func (f *BasicFlow) Previous() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	if f.state != BasicAnswering {
		return ErrWrongState
	}
	if len(f.answers) == 0 {
		return ErrNoPrevious
	}
	f.answers = f.answers[:len(f.answers)-1]
	return nil
}

// Save persists the pending assessment. It can be retried after a failure.
func (f *BasicFlow) Save(ctx context.Context) error {
	f.mu.Lock()
	if f.state != BasicAssessmentPending {
		f.mu.Unlock()
		return ErrWrongState
	}
	if err := f.begin(); err != nil {
		f.mu.Unlock()
		return err
	}
	req := resultRequest(model.TestTypeBasic, f.bodyPart, f.assessment, f.transcript(), nil)
	f.mu.Unlock()

	result, err := f.api.CreateTestResult(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		return fmt.Errorf("failed to save test result: %w", err)
	}
	f.result = result
	f.state = BasicComplete
	return nil
}
