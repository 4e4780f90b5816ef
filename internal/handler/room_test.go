package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastien/teamup/internal/app"
	"github.com/tastien/teamup/internal/catalog"
	"github.com/tastien/teamup/internal/model"
	"github.com/tastien/teamup/internal/service"
)

// ============================================================================
// In-memory store wiring
// ============================================================================

// memoryStore satisfies service.RoomStore for handler tests without any
// remote document.
type memoryStore struct {
	doc model.RoomsDocument
}

func (m *memoryStore) Rooms(ctx context.Context) ([]model.TeamRoom, error) {
	return m.doc.Rooms, nil
}

func (m *memoryStore) Mutate(ctx context.Context, mutate func(doc *model.RoomsDocument) error) error {
	return mutate(&m.doc)
}

func newTestHandler(store *memoryStore) *RoomHandler {
	matching := service.NewMatchingService(service.MatchingServiceConfig{})
	rooms := service.NewRoomService(service.RoomServiceConfig{Store: store})
	state := app.New(app.Config{
		Rooms:      rooms,
		Matching:   matching,
		Activities: catalog.Activities(),
	})
	return NewRoomHandler(state, matching)
}

func login(t *testing.T, h *RoomHandler, id string, power int) {
	t.Helper()
	body := `{"id":"` + id + `","gameId":"player-` + id + `","profession":"mage","combatPower":` + itoa(power) + `}`
	rec := httptest.NewRecorder()
	h.SetUser(rec, httptest.NewRequest(http.MethodPut, "/v1/user", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func itoa(n int) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}

func createRoom(t *testing.T, h *RoomHandler, title string) model.TeamRoom {
	t.Helper()
	body := `{"title":"` + title + `","activityId":"dungeon-normal","difficulty":"easy","maxMembers":4}`
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/v1/rooms", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data []model.TeamRoom `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, room := range resp.Data {
		if room.Title == title {
			return room
		}
	}
	t.Fatalf("created room %q not in response", title)
	return model.TeamRoom{}
}

func problemOf(t *testing.T, rec *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()
	var p model.ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

// ============================================================================
// Session Tests
// ============================================================================

func TestSetUser_ReturnsProfileWithDerivedTier(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	body := `{"id":"u1","gameId":"player-one","profession":"mage","combatPower":160000}`
	rec := httptest.NewRecorder()

	h.SetUser(rec, httptest.NewRequest(http.MethodPut, "/v1/user", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data model.UserProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.PlayerTypeMaster, resp.Data.PlayerType)
}

func TestSetUser_InvalidProfession_Unprocessable(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	body := `{"id":"u1","gameId":"player-one","profession":"bard","combatPower":90000}`
	rec := httptest.NewRecorder()

	h.SetUser(rec, httptest.NewRequest(http.MethodPut, "/v1/user", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestSetUser_MalformedBody_BadRequest(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	rec := httptest.NewRecorder()

	h.SetUser(rec, httptest.NewRequest(http.MethodPut, "/v1/user", strings.NewReader("{oops")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUser_NoSession_NotFound(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	rec := httptest.NewRecorder()

	h.GetUser(rec, httptest.NewRequest(http.MethodGet, "/v1/user", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogout_ClearsSession(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	login(t, h, "u1", 90000)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodDelete, "/v1/user", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.GetUser(rec, httptest.NewRequest(http.MethodGet, "/v1/user", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// Activities Tests
// ============================================================================

func TestActivities_ReturnsCatalog(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	rec := httptest.NewRecorder()

	h.Activities(rec, httptest.NewRequest(http.MethodGet, "/v1/activities", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []model.ActivityConfig `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 3)
}

// ============================================================================
// Room Tests
// ============================================================================

func TestCreate_RequiresSession(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	body := `{"title":"run","activityId":"dungeon-normal","difficulty":"easy","maxMembers":4}`
	rec := httptest.NewRecorder()

	h.Create(rec, httptest.NewRequest(http.MethodPost, "/v1/rooms", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_UnknownActivity_NotFound(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	login(t, h, "u1", 90000)
	body := `{"title":"run","activityId":"world-boss","difficulty":"easy","maxMembers":4}`
	rec := httptest.NewRecorder()

	h.Create(rec, httptest.NewRequest(http.MethodPost, "/v1/rooms", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, problemOf(t, rec).Detail, "activity")
}

func TestCreate_PersistsRoomLedByCurrentUser(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	h := newTestHandler(store)
	login(t, h, "u1", 90000)

	room := createRoom(t, h, "morning run")

	assert.Equal(t, "u1", room.Leader.ID)
	assert.Equal(t, model.TeamStatusRecruiting, room.Status)
	require.Len(t, store.doc.Rooms, 1)
}

func TestJoin_AddsMember(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	h := newTestHandler(store)
	login(t, h, "u1", 90000)
	room := createRoom(t, h, "run")

	login(t, h, "u2", 80000)
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/"+room.ID+"/join", nil)
	req.SetPathValue("roomId", room.ID)
	rec := httptest.NewRecorder()

	h.Join(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, store.doc.Rooms[0].Members, 2)
}

func TestJoin_Twice_Conflict(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	login(t, h, "u1", 90000)
	room := createRoom(t, h, "run")

	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/"+room.ID+"/join", nil)
	req.SetPathValue("roomId", room.ID)
	rec := httptest.NewRecorder()

	h.Join(rec, req) // the leader is already a member

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestJoin_MissingRoomID_BadRequest(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	login(t, h, "u1", 90000)
	rec := httptest.NewRecorder()

	h.Join(rec, httptest.NewRequest(http.MethodPost, "/v1/rooms//join", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeave_UnknownRoom_NotFound(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	login(t, h, "u1", 90000)
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/missing/leave", nil)
	req.SetPathValue("roomId", "missing")
	rec := httptest.NewRecorder()

	h.Leave(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_NonLeader_Forbidden(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	login(t, h, "u1", 90000)
	room := createRoom(t, h, "run")

	login(t, h, "u2", 80000)
	req := httptest.NewRequest(http.MethodDelete, "/v1/rooms/"+room.ID, nil)
	req.SetPathValue("roomId", room.ID)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDelete_ByLeader_NoContent(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	h := newTestHandler(store)
	login(t, h, "u1", 90000)
	room := createRoom(t, h, "run")

	req := httptest.NewRequest(http.MethodDelete, "/v1/rooms/"+room.ID, nil)
	req.SetPathValue("roomId", room.ID)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.doc.Rooms)
}

func TestRecommended_RequiresSession(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	rec := httptest.NewRecorder()

	h.Recommended(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/recommended", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Matching Tests
// ============================================================================

func TestEvaluate_ReportsTeamPower(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	body := `{
		"activityId": "dungeon-normal",
		"members": [
			{"id":"a","gameId":"a","profession":"knight","combatPower":60000},
			{"id":"b","gameId":"b","profession":"mage","combatPower":80000}
		]
	}`
	rec := httptest.NewRecorder()

	h.Evaluate(rec, httptest.NewRequest(http.MethodPost, "/v1/match/evaluate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Data service.TeamPowerReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 70000, resp.Data.AveragePower)
	assert.Equal(t, 60000, resp.Data.MinPower)
	assert.Equal(t, 80000, resp.Data.MaxPower)
	assert.Greater(t, resp.Data.SuccessRate, 0.0)
}

func TestBatchCarry_RequiresSession(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	rec := httptest.NewRecorder()

	h.BatchCarry(rec, httptest.NewRequest(http.MethodPost, "/v1/match/batch-carry", strings.NewReader("{}")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchCarry_GroupsApplicants(t *testing.T) {
	t.Parallel()
	h := newTestHandler(&memoryStore{})
	login(t, h, "master", 200000)
	body := `{
		"activityId": "dungeon-normal",
		"timeSlot": {"startTime":"2026-03-01T20:00:00Z","endTime":"2026-03-01T22:00:00Z"},
		"applicants": [
			{"id":"a","gameId":"a","profession":"mage","combatPower":60000,
			 "availableTime":[{"startTime":"2026-03-01T19:00:00Z","endTime":"2026-03-01T23:00:00Z"}]},
			{"id":"b","gameId":"b","profession":"mage","combatPower":40000,
			 "availableTime":[{"startTime":"2026-03-01T19:00:00Z","endTime":"2026-03-01T23:00:00Z"}]}
		]
	}`
	rec := httptest.NewRecorder()

	h.BatchCarry(rec, httptest.NewRequest(http.MethodPost, "/v1/match/batch-carry", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Data [][]model.UserProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Len(t, resp.Data[0], 1)
	assert.Equal(t, "a", resp.Data[0][0].ID, "under-powered applicant must be filtered out")
}

// ============================================================================
// Health Tests
// ============================================================================

func TestHealth(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
