package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/screening"
	"github.com/jwalitptl/cancerguard-api/internal/session"
	"github.com/jwalitptl/cancerguard-api/internal/storage/storagetest"
	"github.com/jwalitptl/cancerguard-api/internal/textgen"
	"github.com/jwalitptl/cancerguard-api/pkg/client"
	"github.com/jwalitptl/cancerguard-api/pkg/metrics"
	"github.com/jwalitptl/cancerguard-api/pkg/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	*httptest.Server
	store *storagetest.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New("cg_test", reg)
	store := storagetest.NewMemory()

	deps := Dependencies{
		Storage:  store,
		TextGen:  textgen.New(textgen.Config{}, m),
		Sessions: session.NewManager(session.NewMemoryStore(time.Hour), session.NewCodec("test-secret"), session.Options{TTL: time.Hour}, m),
		Hasher:   security.NewBcryptHasher(4),
		Metrics:  m,
		Gatherer: reg,
	}
	r := Build(deps, Config{
		CORSOrigins: []string{"http://localhost:3000"},
		MetricsPath: "/metrics",
	})

	srv := httptest.NewServer(r.Engine())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

func (s *testServer) client(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.New(s.URL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func (s *testServer) registered(t *testing.T, username string) *client.Client {
	t.Helper()
	c := s.client(t)
	_, err := c.Register(context.Background(), model.RegisterRequest{Username: username, Password: "secret1"})
	require.NoError(t, err)
	return c
}

func TestRegister_SetsSessionCookie(t *testing.T) {
	srv := newTestServer(t)

	body := `{"username":"ann","password":"secret1"}`
	resp, err := http.Post(srv.URL+"/api/register", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, resp.Cookies())
	assert.Equal(t, "cg.sid", resp.Cookies()[0].Name)

	var user map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "ann", user["username"])
	assert.NotContains(t, user, "password")

	again, err := http.Post(srv.URL+"/api/register", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer again.Body.Close()
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)
	var msg map[string]string
	require.NoError(t, json.NewDecoder(again.Body).Decode(&msg))
	assert.Equal(t, "Username already exists", msg["message"])
}

func TestRegister_ValidationMessage(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/register", "application/json", strings.NewReader(`{"username":"ann","password":"123"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var msg map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	assert.Contains(t, msg["message"], "password")
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := srv.registered(t, "ann")

	me, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann", me.Username)

	require.NoError(t, c.Logout(ctx))
	_, err = c.CurrentUser(ctx)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	_, err = c.Login(ctx, "ann", "wrong-password")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	_, err = c.Login(ctx, "ann", "secret1")
	require.NoError(t, err)
	_, err = c.CurrentUser(ctx)
	assert.NoError(t, err)
}

func TestUnauthenticated_NoSideEffects(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/test-results", ""},
		{http.MethodPost, "/api/test-results", `{"testType":"basic","cancerType":"skin","riskLevel":"low","confidence":10}`},
		{http.MethodGet, "/api/test-results/1", ""},
		{http.MethodGet, "/api/user", ""},
		{http.MethodPatch, "/api/user/1", `{"firstName":"x"}`},
		{http.MethodPost, "/api/generate-question", `{"bodyPart":"skin"}`},
		{http.MethodPost, "/api/generate-assessment", `{"bodyPart":"skin","questions":[],"answers":[]}`},
		{http.MethodPost, "/api/chatbot", `{"query":"hi"}`},
		{http.MethodPost, "/api/analyze-symptoms", `{"symptoms":["cough"],"cancerType":"throat"}`},
		{http.MethodGet, "/api/appointments", ""},
		{http.MethodPost, "/api/recovery-plans", `{"title":"x"}`},
	} {
		req, err := http.NewRequest(tc.method, srv.URL+tc.path, bytes.NewBufferString(tc.body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
	assert.Zero(t, srv.store.Writes())
}

func TestTestResults_Ownership(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	ann := srv.registered(t, "ann")
	bob := srv.registered(t, "bob")

	confidence := 72
	created, err := ann.CreateTestResult(ctx, model.CreateTestResultRequest{
		TestType:   model.TestTypeBasic,
		CancerType: model.BodyPartSkin,
		RiskLevel:  "High",
		Confidence: &confidence,
		Result:     model.ResultNegative,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ResultPositive, created.Result)
	assert.Equal(t, model.RiskHigh, created.RiskLevel)

	got, err := ann.TestResult(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	leaked, err := bob.TestResult(ctx, created.ID)
	assert.Nil(t, leaked)
	assert.True(t, client.IsStatus(err, http.StatusForbidden))

	_, err = ann.TestResult(ctx, created.ID+1000)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))

	list, err := bob.TestResults(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	tooHigh := 150
	_, err = ann.CreateTestResult(ctx, model.CreateTestResultRequest{TestType: "basic", CancerType: "skin", RiskLevel: "low", Confidence: &tooHigh})
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
}

func TestHospitalsArePublic(t *testing.T) {
	srv := newTestServer(t)
	rating := 45
	srv.store.AddHospital(model.Hospital{Name: "City Oncology", Address: "1 Main St", Rating: &rating})

	hospitals, err := srv.client(t).Hospitals(context.Background())
	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.InDelta(t, 4.5, hospitals[0].RatingStars, 0.0001)

	resp, err := http.Get(srv.URL + "/api/hospitals/999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBasicFlowAgainstFallbackServer(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := srv.registered(t, "ann")

	flow := screening.NewBasicFlow(c)
	require.NoError(t, flow.Answer(ctx, screening.FirstQuestion.Options[1]))
	for flow.State() == screening.BasicAnswering {
		q, err := flow.Current()
		require.NoError(t, err)
		require.Len(t, q.Options, 4)
		require.NoError(t, flow.Answer(ctx, q.Options[0]))
	}

	require.Equal(t, screening.BasicComplete, flow.State())
	assert.Equal(t, model.BodyPartThroat, flow.BodyPart())

	results, err := c.TestResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.BodyPartThroat, results[0].CancerType)
	assert.Len(t, results[0].Questionnaire.V, screening.TotalQuestions)
}

func TestAssessmentEndpoints_Validation(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := srv.registered(t, "ann")

	_, err := c.GenerateQuestion(ctx, model.GenerateQuestionRequest{})
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))

	_, err = c.Chatbot(ctx, "", nil)
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))

	reply, err := c.Chatbot(ctx, "I have a symptom on my skin", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestStatusEndpoints(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := srv.client(t)

	gemini, err := c.GeminiStatus(ctx)
	require.NoError(t, err)
	assert.False(t, gemini.Available)
	assert.Equal(t, "Gemini API key is not configured. Using fallback mode.", gemini.Message)

	db, err := c.DatabaseStatus(ctx)
	require.NoError(t, err)
	assert.True(t, db.Available)

	srv.store.FailWith = assert.AnError
	db, err = c.DatabaseStatus(ctx)
	require.NoError(t, err, "still 200")
	assert.False(t, db.Available)

	resp, err := http.Get(srv.URL + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health/live")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `cg_test_http_requests_total{method="GET",path="/health/live",status="200"} 1`)
}

func TestCORS_AllowsConfiguredOriginWithCredentials(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
