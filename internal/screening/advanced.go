package screening

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jwalitptl/cancerguard-api/internal/imaging"
	"github.com/jwalitptl/cancerguard-api/internal/model"
)

const (
	AreaQuestion     = "Which body area is affected?"
	DurationQuestion = "How long have you noticed this issue?"
	PainQuestion     = "Have you experienced any pain in this area?"

	cancerousLabel = "Cancerous"
)

var (
	AdvancedAreas   = []string{model.BodyPartSkin, model.BodyPartThroat, model.BodyPartBreast}
	DurationOptions = []string{"Less than 1 week", "1-4 weeks", "1-3 months", "More than 3 months"}
	PainOptions     = []string{"No pain at all", "Mild discomfort", "Moderate pain", "Severe pain"}
)

type AdvancedState int

const (
	AdvancedSelectArea AdvancedState = iota
	AdvancedAnswerQuestions
	AdvancedUploadImage
	AdvancedViewResults
)

func (s AdvancedState) String() string {
	switch s {
	case AdvancedSelectArea:
		return "select-area"
	case AdvancedAnswerQuestions:
		return "answer-questions"
	case AdvancedUploadImage:
		return "upload-image"
	case AdvancedViewResults:
		return "view-results"
	}
	return fmt.Sprintf("AdvancedState(%d)", int(s))
}

// ResultSaver persists a completed test.
type ResultSaver interface {
	CreateTestResult(ctx context.Context, req model.CreateTestResultRequest) (*model.TestResult, error)
}

// AdvancedFlow is the image based test: area, two questions, an image.
type AdvancedFlow struct {
	api        ResultSaver
	classifier imaging.Classifier
	userID     int64

	mu         sync.Mutex
	busy       bool
	state      AdvancedState
	area       string
	duration   string
	pain       string
	image      *imaging.Image
	assessment *model.Assessment
	result     *model.TestResult
}

func NewAdvancedFlow(api ResultSaver, classifier imaging.Classifier, userID int64) *AdvancedFlow {
	return &AdvancedFlow{api: api, classifier: classifier, userID: userID, state: AdvancedSelectArea}
}

func (f *AdvancedFlow) State() AdvancedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *AdvancedFlow) Assessment() *model.Assessment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assessment
}

func (f *AdvancedFlow) Result() *model.TestResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

func (f *AdvancedFlow) SelectArea(area string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != AdvancedSelectArea {
		return ErrWrongState
	}
	area = strings.ToLower(strings.TrimSpace(area))
	if !validOption(AdvancedAreas, area) {
		return ErrInvalidAnswer
	}
	f.area = area
	f.state = AdvancedAnswerQuestions
	return nil
}

func (f *AdvancedFlow) AnswerQuestions(duration, pain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != AdvancedAnswerQuestions {
		return ErrWrongState
	}
	if !validOption(DurationOptions, duration) || !validOption(PainOptions, pain) {
		return ErrInvalidAnswer
	}
	f.duration, f.pain = duration, pain
	f.state = AdvancedUploadImage
	return nil
}

// AttachImage validates an image locally. A rejected image leaves the flow
// unchanged and nothing is sent anywhere.
func (f *AdvancedFlow) AttachImage(filename string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != AdvancedUploadImage {
		return ErrWrongState
	}
	img, err := imaging.Validate(filename, data)
	if err != nil {
		return err
	}
	f.image = img
	return nil
}

// Back returns to the previous step keeping every input. Results are final.
func (f *AdvancedFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	switch f.state {
	case AdvancedAnswerQuestions:
		f.state = AdvancedSelectArea
	case AdvancedUploadImage:
		f.state = AdvancedAnswerQuestions
	case AdvancedSelectArea:
		return ErrNoPrevious
	default:
		return ErrWrongState
	}
	return nil
}

// Submit classifies the attached image, saves the result and shows it.
func (f *AdvancedFlow) Submit(ctx context.Context) (*model.Assessment, error) {
	f.mu.Lock()
	if f.state != AdvancedUploadImage {
		f.mu.Unlock()
		return nil, ErrWrongState
	}
	if f.image == nil {
		f.mu.Unlock()
		return nil, imaging.ErrEmptyImage
	}
	if f.busy {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.busy = true
	img, area, duration, pain := f.image, f.area, f.duration, f.pain
	f.mu.Unlock()

	release := func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}

	pred, err := f.classifier.Predict(ctx, img, area, f.userID)
	if err != nil {
		release()
		return nil, err
	}

	assessment := AssessPrediction(area, pred)
	qa := []model.QAPair{
		{Question: AreaQuestion, Answer: area},
		{Question: DurationQuestion, Answer: duration},
		{Question: PainQuestion, Answer: pain},
	}
	var imageURL *string
	if pred.ImageURL != "" {
		imageURL = &pred.ImageURL
	}

	result, err := f.api.CreateTestResult(ctx, resultRequest(model.TestTypeAdvanced, area, assessment, qa, imageURL))
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to save test result: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	f.assessment = assessment
	f.result = result
	f.state = AdvancedViewResults
	return assessment, nil
}

// AssessPrediction turns a classifier reply into an assessment.
func AssessPrediction(area string, p *model.Prediction) *model.Assessment {
	percent := p.Confidence * 100
	level := "Low"
	first := "While the analysis suggests no immediate concerns, we recommend regular check-ups and monitoring."
	if p.Prediction == cancerousLabel {
		level = "High"
		first = "We strongly recommend consulting with a healthcare professional for further evaluation."
	}
	confidence := int(percent + 0.5)
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}
	return &model.Assessment{
		RiskLevel:  level,
		Confidence: confidence,
		Explanation: fmt.Sprintf("Based on the analysis of your %s image, the model has determined this to be %s with %.1f%% confidence.",
			area, strings.ToLower(p.Prediction), percent),
		Recommendations: []string{
			first,
			"Keep track of any changes in the affected area.",
			"Document any new symptoms or changes over time.",
		},
	}
}
