package teams

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fieldhouse/fieldhouse/internal/models"
	"github.com/fieldhouse/fieldhouse/internal/store"
	"github.com/fieldhouse/fieldhouse/internal/testutil"
)

func setupTeamsTest(t *testing.T) {
	t.Helper()

	database := testutil.NewTestDB(t)

	teamStore = nil
	gameStore = nil
	initOnce = sync.Once{}
	InitHandlers(store.NewTeamStore(database), store.NewGameStore(database))

	t.Cleanup(func() {
		teamStore = nil
		gameStore = nil
		initOnce = sync.Once{}
	})
}

func createTestTeam(t *testing.T) models.Team {
	t.Helper()

	body := `{"name": "Thunder U12", "sport": "volleyball", "season": "Fall 2026"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleCreateTeam(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: status %d, body %s", rec.Code, rec.Body.String())
	}
	var team models.Team
	if err := json.NewDecoder(rec.Body).Decode(&team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	return team
}

func TestHandleCreateTeam(t *testing.T) {
	setupTeamsTest(t)

	team := createTestTeam(t)
	if team.ID == 0 {
		t.Error("expected a team ID")
	}
	if team.Sport != "volleyball" {
		t.Errorf("sport = %q, want volleyball", team.Sport)
	}
}

func TestHandleCreateTeamValidation(t *testing.T) {
	setupTeamsTest(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"sport": "volleyball", "season": "Fall 2026"}`},
		{"unknown sport", `{"name": "X", "sport": "cricket", "season": "Fall 2026"}`},
		{"missing season", `{"name": "X", "sport": "volleyball"}`},
		{"unknown field", `{"name": "X", "sport": "volleyball", "season": "F", "bogus": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/teams", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			HandleCreateTeam(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleGetTeamNotFound(t *testing.T) {
	setupTeamsTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/999", nil)
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()
	HandleGetTeam(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleAddPlayer(t *testing.T) {
	setupTeamsTest(t)
	team := createTestTeam(t)

	body := `{"firstName": "Ava", "lastName": "Nguyen", "jerseyNumber": 7, "guardianName": "Kim Nguyen", "guardianPhone": "(555) 123-4567"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/1/players", strings.NewReader(body))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	HandleAddPlayer(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var player models.Player
	if err := json.NewDecoder(rec.Body).Decode(&player); err != nil {
		t.Fatalf("decode player: %v", err)
	}
	if player.TeamID != team.ID {
		t.Errorf("teamId = %d, want %d", player.TeamID, team.ID)
	}
	if got := player.GuardianPhone.String; got != "+15551234567" {
		t.Errorf("guardianPhone = %q, want normalized E.164 form", got)
	}
}

func TestHandleAddPlayerInvalidPhone(t *testing.T) {
	setupTeamsTest(t)
	createTestTeam(t)

	body := `{"firstName": "Ava", "lastName": "Nguyen", "guardianPhone": "not-a-number"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/1/players", strings.NewReader(body))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	HandleAddPlayer(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAddPlayerUnknownTeam(t *testing.T) {
	setupTeamsTest(t)

	body := `{"firstName": "Ava", "lastName": "Nguyen"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/42/players", strings.NewReader(body))
	req.SetPathValue("id", "42")
	rec := httptest.NewRecorder()
	HandleAddPlayer(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleTeamRecordEmpty(t *testing.T) {
	setupTeamsTest(t)
	createTestTeam(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/1/record", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	HandleTeamRecord(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var record struct {
		GamesPlayed int    `json:"gamesPlayed"`
		Streak      string `json:"streak"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.GamesPlayed != 0 || record.Streak != "-" {
		t.Errorf("unexpected empty record: %+v", record)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"10 digits plain", "5551234567", "+15551234567", false},
		{"10 digits with dashes", "555-123-4567", "+15551234567", false},
		{"10 digits with parens", "(555) 123-4567", "+15551234567", false},
		{"already e164", "+15551234567", "+15551234567", false},
		{"empty passes through", "", "", false},
		{"too short", "12345", "", true},
		{"letters", "not-a-number", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizePhone(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q): %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
