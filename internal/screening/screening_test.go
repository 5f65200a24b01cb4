package screening

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/cancerguard-api/internal/imaging"
	"github.com/jwalitptl/cancerguard-api/internal/model"
)

type fakeAPI struct {
	mu            sync.Mutex
	questionCalls []model.GenerateQuestionRequest
	assessCalls   []model.GenerateAssessmentRequest
	saved         []model.CreateTestResultRequest

	questionErr error
	assessErr   error
	saveErr     error
	assessment  model.Assessment
}

func (f *fakeAPI) GenerateQuestion(ctx context.Context, req model.GenerateQuestionRequest) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.questionErr != nil {
		return nil, f.questionErr
	}
	f.questionCalls = append(f.questionCalls, req)
	n := len(req.PreviousQuestions)
	return &model.Question{
		Question: fmt.Sprintf("%s question %d", req.BodyPart, n),
		Options:  []string{"a", "b", "c", "d"},
	}, nil
}

func (f *fakeAPI) GenerateAssessment(ctx context.Context, req model.GenerateAssessmentRequest) (*model.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assessErr != nil {
		return nil, f.assessErr
	}
	f.assessCalls = append(f.assessCalls, req)
	a := f.assessment
	return &a, nil
}

func (f *fakeAPI) CreateTestResult(ctx context.Context, req model.CreateTestResultRequest) (*model.TestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, req)
	return &model.TestResult{Base: model.Base{ID: int64(len(f.saved))}, TestType: req.TestType}, nil
}

func highAssessment() model.Assessment {
	return model.Assessment{
		RiskLevel:       "High",
		Confidence:      85,
		Explanation:     "Concerning answers.",
		Recommendations: []string{"See a specialist", "Get tested"},
	}
}

func answerAll(t *testing.T, f *BasicFlow, first string) {
	t.Helper()
	require.NoError(t, f.Answer(context.Background(), first))
	for f.State() == BasicAnswering {
		require.NoError(t, f.Answer(context.Background(), "a"))
	}
}

func TestDetectBodyPart(t *testing.T) {
	assert.Equal(t, model.BodyPartSkin, DetectBodyPart(FirstQuestion.Options[0]))
	assert.Equal(t, model.BodyPartThroat, DetectBodyPart(FirstQuestion.Options[1]))
	assert.Equal(t, model.BodyPartBreast, DetectBodyPart(FirstQuestion.Options[2]))
	assert.Equal(t, model.BodyPartGeneral, DetectBodyPart(FirstQuestion.Options[3]))
	assert.Equal(t, model.BodyPartSkin, DetectBodyPart("skin rash near the throat"), "first keyword in skin, throat, breast order wins")

	for i := 0; i < 5; i++ {
		assert.Equal(t, model.BodyPartThroat, DetectBodyPart(FirstQuestion.Options[1]))
	}
}

func TestBasicFlow_AsksEightQuestionsThenSaves(t *testing.T) {
	api := &fakeAPI{assessment: highAssessment()}
	f := NewBasicFlow(api)

	q, err := f.Current()
	require.NoError(t, err)
	assert.Equal(t, FirstQuestion, q)

	answerAll(t, f, FirstQuestion.Options[0])

	assert.Equal(t, BasicComplete, f.State())
	assert.Len(t, api.questionCalls, TotalQuestions-1)
	require.Len(t, api.assessCalls, 1)
	assert.Len(t, api.assessCalls[0].Questions, TotalQuestions)
	assert.Len(t, api.assessCalls[0].Answers, TotalQuestions)
	assert.Equal(t, model.BodyPartSkin, api.assessCalls[0].BodyPart)

	require.Len(t, api.saved, 1)
	saved := api.saved[0]
	assert.Equal(t, model.TestTypeBasic, saved.TestType)
	assert.Equal(t, model.BodyPartSkin, saved.CancerType)
	assert.Equal(t, "high", saved.RiskLevel)
	assert.Equal(t, model.ResultPositive, saved.Result)
	assert.Equal(t, "See a specialist; Get tested", *saved.Recommendations)
	require.Len(t, saved.Questionnaire, TotalQuestions)
	assert.Equal(t, FirstQuestion.Question, saved.Questionnaire[0].Question)
	assert.Nil(t, saved.ImageURL)
	assert.NotNil(t, f.Result())

	_, err = f.Current()
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestBasicFlow_PassesTranscriptToGenerator(t *testing.T) {
	api := &fakeAPI{}
	f := NewBasicFlow(api)

	require.NoError(t, f.Answer(context.Background(), FirstQuestion.Options[2]))
	require.NoError(t, f.Answer(context.Background(), "c"))

	require.Len(t, api.questionCalls, 2)
	last := api.questionCalls[1]
	assert.Equal(t, model.BodyPartBreast, last.BodyPart)
	assert.Equal(t, []string{FirstQuestion.Question, "breast question 1"}, last.PreviousQuestions)
	assert.Equal(t, []string{FirstQuestion.Options[2], "c"}, last.PreviousAnswers)
}

func TestBasicFlow_PreviousDoesNotRegenerate(t *testing.T) {
	api := &fakeAPI{}
	f := NewBasicFlow(api)

	require.NoError(t, f.Answer(context.Background(), FirstQuestion.Options[1]))
	require.NoError(t, f.Answer(context.Background(), "a"))
	before, err := f.Current()
	require.NoError(t, err)

	require.NoError(t, f.Previous())
	assert.Equal(t, 1, f.Step())
	require.NoError(t, f.Answer(context.Background(), "b"))

	after, err := f.Current()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, api.questionCalls, 2)
	assert.Equal(t, "b", f.Transcript()[1].Answer)
}

func TestBasicFlow_ChangingBodyPartRefetches(t *testing.T) {
	api := &fakeAPI{}
	f := NewBasicFlow(api)

	require.NoError(t, f.Answer(context.Background(), FirstQuestion.Options[0]))
	require.NoError(t, f.Previous())
	assert.ErrorIs(t, f.Previous(), ErrNoPrevious)

	// same answer again reuses the fetched question
	require.NoError(t, f.Answer(context.Background(), FirstQuestion.Options[0]))
	assert.Len(t, api.questionCalls, 1)

	require.NoError(t, f.Previous())
	require.NoError(t, f.Answer(context.Background(), FirstQuestion.Options[1]))
	assert.Len(t, api.questionCalls, 2)
	assert.Equal(t, model.BodyPartThroat, f.BodyPart())

	q, err := f.Current()
	require.NoError(t, err)
	assert.Equal(t, "throat question 1", q.Question)
}

func TestBasicFlow_QuestionFailureKeepsStep(t *testing.T) {
	api := &fakeAPI{}
	f := NewBasicFlow(api)
	require.NoError(t, f.Answer(context.Background(), FirstQuestion.Options[0]))

	api.questionErr = errors.New("Failed to generate question")
	err := f.Answer(context.Background(), "a")
	require.Error(t, err)

	assert.Equal(t, 1, f.Step())
	assert.Len(t, f.Transcript(), 1)
	q, err := f.Current()
	require.NoError(t, err)
	assert.Equal(t, "skin question 1", q.Question)

	api.questionErr = nil
	require.NoError(t, f.Answer(context.Background(), "a"))
	assert.Equal(t, 2, f.Step())
}

func TestBasicFlow_AssessmentFailureKeepsLastStep(t *testing.T) {
	api := &fakeAPI{assessment: highAssessment(), assessErr: errors.New("upstream down")}
	f := NewBasicFlow(api)

	require.NoError(t, f.Answer(context.Background(), FirstQuestion.Options[3]))
	for f.Step() < TotalQuestions-1 {
		require.NoError(t, f.Answer(context.Background(), "d"))
	}

	require.Error(t, f.Answer(context.Background(), "d"))
	assert.Equal(t, BasicAnswering, f.State())
	assert.Equal(t, TotalQuestions-1, f.Step())
	assert.Empty(t, api.saved)

	api.assessErr = nil
	require.NoError(t, f.Answer(context.Background(), "d"))
	assert.Equal(t, BasicComplete, f.State())
	assert.Equal(t, model.BodyPartGeneral, api.saved[0].CancerType)
}

func TestBasicFlow_SaveIsRetryable(t *testing.T) {
	api := &fakeAPI{assessment: highAssessment(), saveErr: errors.New("db down")}
	f := NewBasicFlow(api)

	require.NoError(t, f.Answer(context.Background(), FirstQuestion.Options[0]))
	for f.Step() < TotalQuestions-1 {
		require.NoError(t, f.Answer(context.Background(), "a"))
	}
	require.Error(t, f.Answer(context.Background(), "a"))
	assert.Equal(t, BasicAssessmentPending, f.State())
	assert.NotNil(t, f.Assessment())
	assert.ErrorIs(t, f.Previous(), ErrWrongState)

	api.saveErr = nil
	require.NoError(t, f.Save(context.Background()))
	assert.Equal(t, BasicComplete, f.State())
	assert.Len(t, api.assessCalls, 1)
	assert.ErrorIs(t, f.Save(context.Background()), ErrWrongState)
}

func TestBasicFlow_RejectsUnknownAnswer(t *testing.T) {
	f := NewBasicFlow(&fakeAPI{})
	assert.ErrorIs(t, f.Answer(context.Background(), "Elbow"), ErrInvalidAnswer)
	assert.Equal(t, 0, f.Step())
}

type blockingAPI struct {
	fakeAPI
	release chan struct{}
	entered chan struct{}
}

func (b *blockingAPI) GenerateQuestion(ctx context.Context, req model.GenerateQuestionRequest) (*model.Question, error) {
	close(b.entered)
	<-b.release
	return b.fakeAPI.GenerateQuestion(ctx, req)
}

func TestBasicFlow_BlocksWhileLoading(t *testing.T) {
	api := &blockingAPI{release: make(chan struct{}), entered: make(chan struct{})}
	f := NewBasicFlow(api)

	done := make(chan error, 1)
	go func() { done <- f.Answer(context.Background(), FirstQuestion.Options[0]) }()
	<-api.entered

	assert.ErrorIs(t, f.Answer(context.Background(), FirstQuestion.Options[1]), ErrBusy)
	assert.ErrorIs(t, f.Previous(), ErrBusy)

	close(api.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.Step())
}

type fakeClassifier struct {
	calls int
	pred  model.Prediction
	err   error
}

func (c *fakeClassifier) Predict(ctx context.Context, img *imaging.Image, cancerType string, userID int64) (*model.Prediction, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	p := c.pred
	return &p, nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func advanceToUpload(t *testing.T, f *AdvancedFlow) {
	t.Helper()
	require.NoError(t, f.SelectArea("Skin"))
	require.NoError(t, f.AnswerQuestions(DurationOptions[2], PainOptions[1]))
	require.Equal(t, AdvancedUploadImage, f.State())
}

func TestAdvancedFlow_RejectsBadImagesWithoutNetwork(t *testing.T) {
	api := &fakeAPI{}
	classifier := &fakeClassifier{}
	f := NewAdvancedFlow(api, classifier, 7)
	advanceToUpload(t, f)

	assert.ErrorIs(t, f.AttachImage("notes.txt", []byte("plain text, not an image")), imaging.ErrNotAnImage)
	big := append(testPNG(t), make([]byte, imaging.MaxImageBytes)...)
	assert.ErrorIs(t, f.AttachImage("huge.png", big), imaging.ErrImageTooLarge)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, imaging.ErrEmptyImage)

	assert.Equal(t, AdvancedUploadImage, f.State())
	assert.Zero(t, classifier.calls)
	assert.Empty(t, api.saved)
}

func TestAdvancedFlow_Complete(t *testing.T) {
	api := &fakeAPI{}
	classifier := &fakeClassifier{pred: model.Prediction{Prediction: "Cancerous", Confidence: 0.873, ImageURL: "http://localhost:8000/uploads/mole.png"}}
	f := NewAdvancedFlow(api, classifier, 7)
	advanceToUpload(t, f)

	require.NoError(t, f.AttachImage("mole.png", testPNG(t)))
	a, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "High", a.RiskLevel)
	assert.Equal(t, 87, a.Confidence)
	assert.Equal(t, "Based on the analysis of your skin image, the model has determined this to be cancerous with 87.3% confidence.", a.Explanation)
	assert.Equal(t, AdvancedViewResults, f.State())

	require.Len(t, api.saved, 1)
	saved := api.saved[0]
	assert.Equal(t, model.TestTypeAdvanced, saved.TestType)
	assert.Equal(t, "skin", saved.CancerType)
	assert.Equal(t, "high", saved.RiskLevel)
	assert.Equal(t, model.ResultPositive, saved.Result)
	assert.Equal(t, "http://localhost:8000/uploads/mole.png", *saved.ImageURL)
	assert.Equal(t, []model.QAPair{
		{Question: AreaQuestion, Answer: "skin"},
		{Question: DurationQuestion, Answer: DurationOptions[2]},
		{Question: PainQuestion, Answer: PainOptions[1]},
	}, saved.Questionnaire)

	assert.ErrorIs(t, f.Back(), ErrWrongState)
}

func TestAdvancedFlow_BackKeepsInputs(t *testing.T) {
	f := NewAdvancedFlow(&fakeAPI{}, &fakeClassifier{}, 1)
	assert.ErrorIs(t, f.Back(), ErrNoPrevious)
	advanceToUpload(t, f)

	require.NoError(t, f.AttachImage("mole.png", testPNG(t)))
	require.NoError(t, f.Back())
	assert.Equal(t, AdvancedAnswerQuestions, f.State())
	require.NoError(t, f.AnswerQuestions(DurationOptions[0], PainOptions[0]))
	assert.NotNil(t, f.image, "attached image survives back navigation")
}

func TestAdvancedFlow_ClassifierFailureIsRetryable(t *testing.T) {
	api := &fakeAPI{}
	classifier := &fakeClassifier{err: imaging.ErrClassifier, pred: model.Prediction{Prediction: "Benign", Confidence: 0.2}}
	f := NewAdvancedFlow(api, classifier, 1)
	advanceToUpload(t, f)
	require.NoError(t, f.AttachImage("x.png", testPNG(t)))

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, imaging.ErrClassifier)
	assert.Equal(t, AdvancedUploadImage, f.State())

	classifier.err = nil
	a, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Low", a.RiskLevel)
	assert.Equal(t, model.ResultNegative, api.saved[0].Result)
}

func TestAssessPrediction_Benign(t *testing.T) {
	a := AssessPrediction("breast", &model.Prediction{Prediction: "Non-Cancerous", Confidence: 0.456})
	assert.Equal(t, "Low", a.RiskLevel)
	assert.Equal(t, 46, a.Confidence)
	assert.Contains(t, a.Explanation, "non-cancerous with 45.6% confidence")
	assert.Len(t, a.Recommendations, 3)
}
