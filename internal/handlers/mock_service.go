package handlers

import (
	"context"
	"net/http"
	"time"

	"irforge/internal/models"
	"irforge/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockConverter struct {
	runErr      error
	startErr    error
	runCalls    int
	startCalls  int
	lastTrigger string
}

func (m *mockConverter) Run(ctx context.Context, trigger string) error {
	m.runCalls++
	m.lastTrigger = trigger
	return m.runErr
}
func (m *mockConverter) Start(trigger string) error {
	m.startCalls++
	m.lastTrigger = trigger
	return m.startErr
}

type mockRunStatus struct {
	state models.RunState
	err   error
}

func (m *mockRunStatus) GetState(ctx context.Context) (models.RunState, error) {
	return m.state, m.err
}

type mockCatalog struct {
	devices []models.Device
	device  models.Device
	listErr error
	getErr  error

	lastManufacturer string
	lastID           int64
}

func (m *mockCatalog) ListDevices(ctx context.Context, manufacturer string) ([]models.Device, error) {
	m.lastManufacturer = manufacturer
	return m.devices, m.listErr
}
func (m *mockCatalog) GetDevice(ctx context.Context, id int64) (models.Device, error) {
	m.lastID = id
	return m.device, m.getErr
}

type mockEventLog struct {
	resp     []models.ConversionEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.EventFilter) ([]models.ConversionEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
