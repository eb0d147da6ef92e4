package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cory-johannsen/campredict/internal/game/camping"
	"github.com/cory-johannsen/campredict/internal/game/session"
	"github.com/cory-johannsen/campredict/internal/observability"
	"github.com/cory-johannsen/campredict/internal/storage/postgres"
)

const healthTimeout = 2 * time.Second

// maxBodyBytes bounds request bodies; an Input encodes to a few hundred bytes.
const maxBodyBytes = 16 << 10

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse is the 422 body listing every invalid field.
type ValidationResponse struct {
	Errors camping.ValidationErrors `json:"errors"`
}

// BuildingsResponse lists the buildings available at a distance.
type BuildingsResponse struct {
	Distance  int                `json:"distance"`
	Buildings []camping.Building `json:"buildings"`
}

// SessionResponse identifies a newly created session.
type SessionResponse struct {
	ID uuid.UUID `json:"id"`
}

// SessionStateResponse is the current state of a session.
type SessionStateResponse struct {
	ID uuid.UUID `json:"id"`
	// Last is the most recent successful prediction; absent before the first one.
	Last    *camping.Prediction `json:"last,omitempty"`
	Warning session.Warning     `json:"defence_warning"`
}

// DefenceRequest is the body of the defence-only endpoint.
type DefenceRequest struct {
	OD            int     `json:"od"`
	Improvements  int     `json:"improvements"`
	PreviousCarry float64 `json:"previous_carry"`
}

// DefenceResponse is the defence and the session's warning state after it.
type DefenceResponse struct {
	Defence camping.Defence `json:"defence"`
	Warning session.Warning `json:"defence_warning"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}

// writeEvaluationError maps calculator errors to responses.
func writeEvaluationError(w http.ResponseWriter, err error) {
	var verrs camping.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Errors: verrs})
	case errors.Is(err, camping.ErrUnrepresentableNights):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Errors: camping.ValidationErrors{
			"previous_nights": err.Error(),
		}})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (a *API) sessionFromPath(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	sess, err := a.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

// HandleHealth reports liveness and, when configured, database reachability.
func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if a.opts.Health != nil {
		if err := a.opts.Health.Health(r.Context(), healthTimeout); err != nil {
			a.logger.Warn("health check failed", zap.Error(err))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// HandleBuildings lists the buildings available at ?distance=N.
func (a *API) HandleBuildings(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("distance")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, ValidationResponse{Errors: camping.ValidationErrors{"distance": camping.MsgRequired}})
		return
	}
	distance, err := strconv.Atoi(raw)
	if err != nil || distance < camping.MinDistance || distance > camping.MaxDistance {
		writeJSON(w, http.StatusBadRequest, ValidationResponse{Errors: camping.ValidationErrors{
			"distance": camping.MsgBetween(camping.MinDistance, camping.MaxDistance),
		}})
		return
	}
	buildings := a.tables.BuildingsAt(distance)
	if buildings == nil {
		buildings = []camping.Building{}
	}
	writeJSON(w, http.StatusOK, BuildingsResponse{Distance: distance, Buildings: buildings})
}

// HandleTiers returns the tier table in ascending order.
func (a *API) HandleTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.tables.Tiers)
}

// HandlePredict evaluates one input without any session state.
func (a *API) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var in camping.Input
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := camping.Evaluate(in, a.tables)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}
	a.logger.Debug("prediction", observability.PredictionFields(in, p)...)
	writeJSON(w, http.StatusOK, p)
}

// HandleCreateSession opens a predictor session.
func (a *API) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.Create()
	a.logger.Info("session created", zap.String("session", sess.ID.String()))
	writeJSON(w, http.StatusCreated, SessionResponse{ID: sess.ID})
}

// HandleGetSession returns the session's last prediction and warning state.
func (a *API) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.sessionFromPath(w, r)
	if !ok {
		return
	}
	resp := SessionStateResponse{ID: sess.ID, Warning: sess.Warning()}
	if p, ok := sess.Last(); ok {
		resp.Last = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteSession closes a predictor session.
func (a *API) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	if err := a.sessions.Remove(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSessionPredict evaluates an input within a session, updating its
// defence warning and recording the result when history is enabled.
func (a *API) HandleSessionPredict(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.sessionFromPath(w, r)
	if !ok {
		return
	}
	var in camping.Input
	if !decodeBody(w, r, &in) {
		return
	}
	out, err := sess.Predict(in, a.tables)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}

	fields := append(observability.PredictionFields(in, out.Prediction),
		zap.String("session", sess.ID.String()),
		zap.Bool("defence_warning", out.Warning.Active),
	)
	a.logger.Debug("session prediction", fields...)

	if a.opts.History != nil {
		if _, err := a.opts.History.Save(r.Context(), sess.ID, in, out.Prediction); err != nil {
			a.logger.Warn("recording prediction failed", zap.String("session", sess.ID.String()), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSessionDefence computes the defence alone, without validating the
// counts, and updates the session's defence warning.
func (a *API) HandleSessionDefence(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.sessionFromPath(w, r)
	if !ok {
		return
	}
	var req DefenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d, warning := sess.ObserveDefence(req.OD, req.Improvements, req.PreviousCarry)
	writeJSON(w, http.StatusOK, DefenceResponse{Defence: d, Warning: warning})
}

// HandleResetWarning clears the session's defence warning.
func (a *API) HandleResetWarning(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.sessionFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.ResetWarning())
}

// HandleSessionHistory lists the session's recorded predictions, newest first.
func (a *API) HandleSessionHistory(w http.ResponseWriter, r *http.Request) {
	if a.opts.History == nil {
		writeError(w, http.StatusServiceUnavailable, "prediction history is disabled")
		return
	}
	sess, ok := a.sessionFromPath(w, r)
	if !ok {
		return
	}
	records, err := a.opts.History.ListBySession(r.Context(), sess.ID, a.opts.HistoryLimit)
	if err != nil {
		a.logger.Error("listing history failed", zap.String("session", sess.ID.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing history failed")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleHistoryRecord returns one recorded prediction by its ID.
func (a *API) HandleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	if a.opts.History == nil {
		writeError(w, http.StatusServiceUnavailable, "prediction history is disabled")
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["recordID"], 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}
	rec, err := a.opts.History.Get(r.Context(), id)
	switch {
	case errors.Is(err, postgres.ErrPredictionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		a.logger.Error("loading history record failed", zap.Int64("record", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading history record failed")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}
