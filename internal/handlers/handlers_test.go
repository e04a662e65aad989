package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/synqtra/synqtra-api/internal/logic"
	"github.com/synqtra/synqtra-api/internal/models"
)

// Mocks

type MockEventQueue struct {
	Enqueued []*models.InteractionEvent
}

func (m *MockEventQueue) Enqueue(event *models.InteractionEvent) bool {
	m.Enqueued = append(m.Enqueued, event)
	return true
}
func (m *MockEventQueue) QueueDepth() int { return len(m.Enqueued) }

type MockLedger struct {
	Wallet string
	Total  int64
	Games  int64
	Err    error
}

func (m *MockLedger) Bind(ctx context.Context, address string) error { m.Wallet = address; return m.Err }
func (m *MockLedger) Unbind(ctx context.Context) error               { m.Wallet = ""; return m.Err }
func (m *MockLedger) AddPoints(ctx context.Context, amount int64) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Wallet != "" {
		m.Total += amount
	}
	return nil
}
func (m *MockLedger) IncrementGamesPlayed(ctx context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Wallet != "" {
		m.Games++
	}
	return nil
}
func (m *MockLedger) CurrentTotal() int64              { return m.Total }
func (m *MockLedger) CurrentGamesPlayed() int64        { return m.Games }
func (m *MockLedger) ActiveWallet() (string, bool)     { return m.Wallet, m.Wallet != "" }
func (m *MockLedger) Reset(ctx context.Context) error  { m.Total, m.Games = 0, 0; return m.Err }

type MockSession struct {
	ConnectFunc func(ctx context.Context, address string) (*logic.SessionInfo, error)
	State       models.SessionState
}

func (m *MockSession) Connect(ctx context.Context, address string) (*logic.SessionInfo, error) {
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx, address)
	}
	return &logic.SessionInfo{State: models.SessionSignedIn, Address: address}, nil
}
func (m *MockSession) Disconnect(ctx context.Context) error {
	m.State = models.SessionSignedOut
	return nil
}
func (m *MockSession) Restore(ctx context.Context) error { return nil }
func (m *MockSession) Info() *logic.SessionInfo {
	return &logic.SessionInfo{State: m.State}
}

type MockLeaderboard struct {
	ProjectFunc func(ctx context.Context, tier models.Rank) ([]models.LeaderboardEntry, error)
}

func (m *MockLeaderboard) Project(ctx context.Context, tier models.Rank) ([]models.LeaderboardEntry, error) {
	if m.ProjectFunc != nil {
		return m.ProjectFunc(ctx, tier)
	}
	return []models.LeaderboardEntry{}, nil
}
func (m *MockLeaderboard) Overview(ctx context.Context) (*models.LeaderboardOverview, error) {
	return &models.LeaderboardOverview{}, nil
}

type MockPostgres struct {
	ExecFunc  func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	ExecCalls int
}

func (m *MockPostgres) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecCalls++
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}
func (m *MockPostgres) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}
func (m *MockPostgres) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (m *MockPostgres) Ping(ctx context.Context) error { return nil }

func newTestHandler() *Handler {
	return &Handler{
		logger:    zap.NewNop().Sugar(),
		validator: validator.New(),
	}
}

// Tests

func TestHealth(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	h.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" || body["name"] != "synqtra-api" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestVerifyQR_TableDriven(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedOK     bool
		expectEnqueue  bool
	}{
		{
			name:           "Valid Payload",
			body:           `{"from": "0xaaa", "to": "0xbbb", "challengeId": "1"}`,
			expectedStatus: http.StatusOK,
			expectedOK:     true,
			expectEnqueue:  true,
		},
		{
			name:           "Valid Payload With Signature",
			body:           `{"from": "0xaaa", "to": "0xbbb", "challengeId": "1", "signature": "0xsig"}`,
			expectedStatus: http.StatusOK,
			expectedOK:     true,
			expectEnqueue:  true,
		},
		{
			name:           "Missing From",
			body:           `{"to": "0xbbb", "challengeId": "1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing To",
			body:           `{"from": "0xaaa", "challengeId": "1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing ChallengeID",
			body:           `{"from": "0xaaa", "to": "0xbbb"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Empty Body",
			body:           ``,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &MockEventQueue{}
			h := newTestHandler()
			h.queue = queue

			req := httptest.NewRequest("POST", "/qr/verify", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.VerifyQR(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if ok, _ := body["ok"].(bool); ok != tt.expectedOK {
				t.Errorf("expected ok=%v, got %v", tt.expectedOK, body["ok"])
			}

			if tt.expectEnqueue && len(queue.Enqueued) != 1 {
				t.Errorf("expected 1 enqueued event, got %d", len(queue.Enqueued))
			}
			if !tt.expectEnqueue && len(queue.Enqueued) != 0 {
				t.Errorf("expected no enqueued events, got %d", len(queue.Enqueued))
			}
		})
	}
}

func TestAddPoints_NoActiveWallet(t *testing.T) {
	h := newTestHandler()
	h.ledger = &MockLedger{}

	req := httptest.NewRequest("POST", "/points/add", strings.NewReader(`{"points": 25}`))
	w := httptest.NewRecorder()

	h.AddPoints(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if applied, _ := body["applied"].(bool); applied {
		t.Error("points should not apply with no active wallet")
	}
	if total, _ := body["total_points"].(float64); total != 0 {
		t.Errorf("expected total 0, got %v", total)
	}
}

func TestAddPoints_ActiveWallet(t *testing.T) {
	h := newTestHandler()
	h.ledger = &MockLedger{Wallet: "0xaaa", Total: 10}

	req := httptest.NewRequest("POST", "/points/add", strings.NewReader(`{"points": 25}`))
	w := httptest.NewRecorder()

	h.AddPoints(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if total, _ := body["total_points"].(float64); total != 35 {
		t.Errorf("expected total 35, got %v", total)
	}
}

func TestAddPoints_NegativeRejected(t *testing.T) {
	h := newTestHandler()
	h.ledger = &MockLedger{Wallet: "0xaaa"}

	req := httptest.NewRequest("POST", "/points/add", strings.NewReader(`{"points": -5}`))
	w := httptest.NewRecorder()

	h.AddPoints(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative points, got %d", w.Code)
	}
}

func TestCompleteGame_TableDriven(t *testing.T) {
	tests := []struct {
		name           string
		gameID         string
		wallet         string
		expectedStatus int
		expectedAward  float64
		expectEnqueue  bool
	}{
		{
			name:           "Known Game Active Wallet",
			gameID:         "snake",
			wallet:         "0xaaa",
			expectedStatus: http.StatusOK,
			expectedAward:  25,
			expectEnqueue:  true,
		},
		{
			name:           "Known Game No Wallet",
			gameID:         "trivia",
			expectedStatus: http.StatusOK,
			expectedAward:  10,
			expectEnqueue:  false,
		},
		{
			name:           "Unknown Game",
			gameID:         "chess",
			wallet:         "0xaaa",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &MockEventQueue{}
			ledger := &MockLedger{Wallet: tt.wallet}
			h := newTestHandler()
			h.queue = queue
			h.ledger = ledger

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("gameID", tt.gameID)
			req := httptest.NewRequest("POST", "/games/"+tt.gameID+"/complete", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			h.CompleteGame(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var body map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &body)
			if awarded, _ := body["awarded"].(float64); awarded != tt.expectedAward {
				t.Errorf("expected awarded %v, got %v", tt.expectedAward, body["awarded"])
			}

			if tt.expectEnqueue != (len(queue.Enqueued) == 1) {
				t.Errorf("enqueue mismatch: expected %v, got %d events", tt.expectEnqueue, len(queue.Enqueued))
			}
			if tt.wallet != "" && ledger.Games != 1 {
				t.Errorf("expected games played 1, got %d", ledger.Games)
			}
		})
	}
}

func completeChallengeRequest(h *Handler, challengeID string) *httptest.ResponseRecorder {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("challengeID", challengeID)
	req := httptest.NewRequest("POST", "/challenges/"+challengeID+"/complete", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.CompleteChallenge(w, req)
	return w
}

func TestCompleteChallenge_AwardsOnce(t *testing.T) {
	queue := &MockEventQueue{}
	ledger := &MockLedger{Wallet: "0xaaa"}
	pg := &MockPostgres{}
	pg.ExecFunc = func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		// First insert claims the row; the conflict path affects no rows.
		if pg.ExecCalls == 1 {
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		}
		return pgconn.NewCommandTag("INSERT 0 0"), nil
	}

	h := newTestHandler()
	h.queue = queue
	h.ledger = ledger
	h.pg = pg

	w := completeChallengeRequest(h, "1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if awarded, _ := body["awarded"].(bool); !awarded {
		t.Error("first completion should award")
	}
	if ledger.Total != 10 {
		t.Errorf("expected 10 points after first completion, got %d", ledger.Total)
	}

	// A repeat inside any window must not award again: the insert is the
	// gate, not a separate existence check.
	w = completeChallengeRequest(h, "1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if awarded, _ := body["awarded"].(bool); awarded {
		t.Error("repeat completion must not award")
	}
	if ledger.Total != 10 {
		t.Errorf("expected total to stay 10, got %d", ledger.Total)
	}
	if len(queue.Enqueued) != 1 {
		t.Errorf("expected exactly 1 analytics event, got %d", len(queue.Enqueued))
	}
}

func TestCompleteChallenge_NoActiveSession(t *testing.T) {
	pg := &MockPostgres{}
	h := newTestHandler()
	h.ledger = &MockLedger{}
	h.pg = pg

	w := completeChallengeRequest(h, "1")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 with no active session, got %d", w.Code)
	}
	if pg.ExecCalls != 0 {
		t.Errorf("no completion row should be written without a session, got %d inserts", pg.ExecCalls)
	}
}

func TestCompleteChallenge_UnknownChallenge(t *testing.T) {
	h := newTestHandler()
	h.ledger = &MockLedger{Wallet: "0xaaa"}
	h.pg = &MockPostgres{}

	w := completeChallengeRequest(h, "999")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown challenge, got %d", w.Code)
	}
}

func TestGetLeaderboard_TableDriven(t *testing.T) {
	tests := []struct {
		name           string
		tier           string
		mockProject    func(ctx context.Context, tier models.Rank) ([]models.LeaderboardEntry, error)
		expectedStatus int
	}{
		{
			name: "Happy Path - Silver",
			tier: "silver",
			mockProject: func(ctx context.Context, tier models.Rank) ([]models.LeaderboardEntry, error) {
				if tier != models.RankSilver {
					return nil, errors.New("wrong tier requested")
				}
				return []models.LeaderboardEntry{
					{Address: "0xaaa", TotalPoints: 95, Rank: tier, Position: 1},
					{Address: "0xbbb", TotalPoints: 80, Rank: tier, Position: 2},
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unknown Tier",
			tier:           "platinum",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Storage Error",
			tier: "gold",
			mockProject: func(ctx context.Context, tier models.Rank) ([]models.LeaderboardEntry, error) {
				return nil, errors.New("redis down")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			h.leaderboard = &MockLeaderboard{ProjectFunc: tt.mockProject}

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("tier", tt.tier)
			req := httptest.NewRequest("GET", "/leaderboard/"+tt.tier, nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			h.GetLeaderboard(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestConnect_CheckFailure(t *testing.T) {
	h := newTestHandler()
	h.session = &MockSession{
		ConnectFunc: func(ctx context.Context, address string) (*logic.SessionInfo, error) {
			return nil, logic.ErrCheckFailed
		},
	}

	req := httptest.NewRequest("POST", "/session/connect", strings.NewReader(`{"address": "0xaaa"}`))
	w := httptest.NewRecorder()

	h.Connect(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for failed profile check, got %d", w.Code)
	}
}

func TestConnect_MissingAddress(t *testing.T) {
	h := newTestHandler()
	h.session = &MockSession{}

	req := httptest.NewRequest("POST", "/session/connect", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.Connect(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing address, got %d", w.Code)
	}
}
