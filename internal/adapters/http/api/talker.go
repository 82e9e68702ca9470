package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/talker/internal/domain/model"
	"github.com/okian/talker/internal/domain/validation"
	"github.com/okian/talker/pkg/logger"
	"github.com/okian/talker/pkg/metrics"
)

// AuthorizationHeader carries the raw session token.
const AuthorizationHeader = "Authorization"

// MaxBodyBytes caps create, update and login payloads.
const MaxBodyBytes = 1 << 20

// TalkerHandler serves the /talker resource.
type TalkerHandler struct {
	deps   TalkerDependencies
	chain  *validation.Chain[validation.TalkerRequest]
	logger logger.Logger
}

// NewTalkerHandler creates a new talker handler.
func NewTalkerHandler(deps TalkerDependencies, log logger.Logger) *TalkerHandler {
	return &TalkerHandler{
		deps:   deps,
		chain:  validation.TalkerChain(),
		logger: log,
	}
}

// validatedHandlerFunc receives the fields of a request that passed the talker chain.
type validatedHandlerFunc func(w http.ResponseWriter, r *http.Request, f model.TalkerFields)

// requireValidTalker runs the talker chain and only calls next when every rule passes.
func (h *TalkerHandler) requireValidTalker(next validatedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		req := validation.NewTalkerRequest(r.Header.Get(AuthorizationHeader), body)
		if f := h.chain.Validate(req); f != nil {
			rejectRequest(w, r, h.logger, f)
			return
		}
		next(w, r, req.Body.Fields())
	}
}

// HandleList handles GET /talker.
func (h *TalkerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	talkers, err := h.deps.List(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	if talkers == nil {
		talkers = []model.Talker{}
	}
	writeJSON(w, http.StatusOK, talkers)
}

// HandleGet handles GET /talker/{id}.
func (h *TalkerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, MsgNotFound)
		return
	}
	t, err := h.deps.Get(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleCreate handles POST /talker after validation.
func (h *TalkerHandler) HandleCreate(w http.ResponseWriter, r *http.Request, f model.TalkerFields) {
	t, err := h.deps.Create(r.Context(), f)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	h.logger.Debug(r.Context(), "talker created", logger.Int("id", t.ID))
	writeJSON(w, http.StatusCreated, t)
}

// HandleUpdate handles PUT /talker/{id} after validation.
func (h *TalkerHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, f model.TalkerFields) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, MsgNotFound)
		return
	}
	t, err := h.deps.Update(r.Context(), id, f)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	h.logger.Debug(r.Context(), "talker updated", logger.Int("id", t.ID))
	writeJSON(w, http.StatusOK, t)
}

// parseID reads the {id} path value the way a numeric coercion would:
// "1", " 1 ", "1.0", "1e0" and "0x1" all name talker 1. Anything that is
// not a whole number is unknown.
func parseID(r *http.Request) (int, bool) {
	s := strings.TrimSpace(r.PathValue("id"))
	if s == "" {
		return 0, false
	}
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		id, err := strconv.ParseInt(s, 0, strconv.IntSize)
		if err != nil {
			return 0, false
		}
		return int(id), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) ||
		f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func rejectRequest(w http.ResponseWriter, r *http.Request, log logger.Logger, f *validation.Failure) {
	metrics.RecordValidationFailure(f.Chain, f.Rule)
	log.Debug(r.Context(), "request rejected",
		logger.String("chain", f.Chain),
		logger.String("rule", f.Rule),
		logger.Int("status", f.Status),
	)
	writeMessage(w, f.Status, f.Message)
}
