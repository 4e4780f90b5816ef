package handler

import (
	"net/http"

	"github.com/tastien/teamup/internal/app"
	"github.com/tastien/teamup/internal/catalog"
	"github.com/tastien/teamup/internal/model"
	"github.com/tastien/teamup/internal/service"
)

// RoomHandler handles room and session HTTP requests through the
// application state facade.
type RoomHandler struct {
	state    *app.State
	matching *service.MatchingService
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(state *app.State, matching *service.MatchingService) *RoomHandler {
	return &RoomHandler{state: state, matching: matching}
}

// SetUser handles PUT /v1/user - establish the current player profile
func (h *RoomHandler) SetUser(w http.ResponseWriter, r *http.Request) {
	var user model.UserProfile
	if err := DecodeJSON(r, &user); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if err := h.state.SetUser(user); err != nil {
		WriteError(w, MapError(err))
		return
	}

	current, _ := h.state.CurrentUser()
	WriteData(w, http.StatusOK, current)
}

// GetUser handles GET /v1/user - current player profile
func (h *RoomHandler) GetUser(w http.ResponseWriter, _ *http.Request) {
	user, ok := h.state.CurrentUser()
	if !ok {
		WriteError(w, model.NewNotFoundError("user profile"))
		return
	}
	WriteData(w, http.StatusOK, user)
}

// Logout handles DELETE /v1/user - clear the session
func (h *RoomHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.state.Logout()
	WriteNoContent(w)
}

// Activities handles GET /v1/activities - the static catalog
func (h *RoomHandler) Activities(w http.ResponseWriter, _ *http.Request) {
	WriteData(w, http.StatusOK, h.state.Activities())
}

// List handles GET /v1/rooms - refresh and return the room list
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.state.LoadRooms(r.Context()); err != nil {
		WriteError(w, MapError(err))
		return
	}
	WriteData(w, http.StatusOK, h.state.Rooms())
}

// createRoomBody is the wire form of a room creation request; the activity
// is referenced by catalog id and embedded server-side.
type createRoomBody struct {
	Title        string                 `json:"title"`
	ActivityID   string                 `json:"activityId"`
	Difficulty   string                 `json:"difficulty"`
	MaxMembers   int                    `json:"maxMembers"`
	Requirements model.TeamRequirements `json:"requirements"`
	Schedule     model.TeamSchedule     `json:"schedule"`
	Mode         model.TeamMode         `json:"mode"`
}

// Create handles POST /v1/rooms - open a new room led by the current user
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createRoomBody
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	activity, ok := catalog.ByID(body.ActivityID)
	if !ok {
		WriteError(w, model.NewNotFoundError("activity"))
		return
	}

	req := service.CreateRoomRequest{
		Title:        body.Title,
		Activity:     activity,
		Difficulty:   body.Difficulty,
		MaxMembers:   body.MaxMembers,
		Requirements: body.Requirements,
		Schedule:     body.Schedule,
		Mode:         body.Mode,
	}

	if err := h.state.CreateRoom(r.Context(), req); err != nil {
		WriteError(w, MapError(err))
		return
	}

	WriteData(w, http.StatusCreated, h.state.Rooms())
}

// Join handles POST /v1/rooms/{roomId}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if roomID == "" {
		WriteError(w, model.NewBadRequestError("room ID required"))
		return
	}

	if err := h.state.JoinRoom(r.Context(), roomID); err != nil {
		WriteError(w, MapError(err))
		return
	}
	WriteData(w, http.StatusOK, h.state.Rooms())
}

// Leave handles POST /v1/rooms/{roomId}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if roomID == "" {
		WriteError(w, model.NewBadRequestError("room ID required"))
		return
	}

	if err := h.state.LeaveRoom(r.Context(), roomID); err != nil {
		WriteError(w, MapError(err))
		return
	}
	WriteData(w, http.StatusOK, h.state.Rooms())
}

// Delete handles DELETE /v1/rooms/{roomId}
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if roomID == "" {
		WriteError(w, model.NewBadRequestError("room ID required"))
		return
	}

	if err := h.state.DeleteRoom(r.Context(), roomID); err != nil {
		WriteError(w, MapError(err))
		return
	}
	WriteNoContent(w)
}

// Recommended handles GET /v1/rooms/recommended - ranked joinable rooms
// for the current user
func (h *RoomHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	if err := h.state.LoadRooms(r.Context()); err != nil {
		WriteError(w, MapError(err))
		return
	}

	rooms, err := h.state.Recommended()
	if err != nil {
		WriteError(w, MapError(err))
		return
	}
	WriteData(w, http.StatusOK, rooms)
}

// Balance handles GET /v1/rooms/{roomId}/balance - profession suggestions
// for the room's open slots
func (h *RoomHandler) Balance(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if roomID == "" {
		WriteError(w, model.NewBadRequestError("room ID required"))
		return
	}

	if err := h.state.LoadRooms(r.Context()); err != nil {
		WriteError(w, MapError(err))
		return
	}

	for _, room := range h.state.Rooms() {
		if room.ID == roomID {
			members := make([]model.UserProfile, len(room.Members))
			for i, m := range room.Members {
				members[i] = m.User
			}
			WriteData(w, http.StatusOK, h.matching.SuggestProfessionBalance(members, room.MaxMembers))
			return
		}
	}
	WriteError(w, model.NewNotFoundError("room"))
}

// evaluateBody carries a prospective team for power evaluation.
type evaluateBody struct {
	ActivityID string              `json:"activityId"`
	Members    []model.UserProfile `json:"members"`
}

// Evaluate handles POST /v1/match/evaluate - team power and success odds
func (h *RoomHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body evaluateBody
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	activity, ok := catalog.ByID(body.ActivityID)
	if !ok {
		WriteError(w, model.NewNotFoundError("activity"))
		return
	}

	WriteData(w, http.StatusOK, h.matching.EvaluateTeamPower(body.Members, activity))
}

// batchCarryBody carries a batch-carry optimization request. The current
// user is the master.
type batchCarryBody struct {
	ActivityID string              `json:"activityId"`
	TimeSlot   model.TimeSlot      `json:"timeSlot"`
	Applicants []model.UserProfile `json:"applicants"`
}

// BatchCarry handles POST /v1/match/batch-carry - group applicants into
// carry teams under the current user
func (h *RoomHandler) BatchCarry(w http.ResponseWriter, r *http.Request) {
	master, ok := h.state.CurrentUser()
	if !ok {
		WriteError(w, MapError(app.ErrNoUser))
		return
	}

	var body batchCarryBody
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	activity, ok := catalog.ByID(body.ActivityID)
	if !ok {
		WriteError(w, model.NewNotFoundError("activity"))
		return
	}

	teams := h.matching.OptimizeBatchCarry(master, body.Applicants, activity, body.TimeSlot)
	WriteData(w, http.StatusOK, teams)
}
