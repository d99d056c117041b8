package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"vexal/internal/app/auth"
	"vexal/internal/app/gm"
	"vexal/internal/app/ports"
	"vexal/internal/app/replay"
	"vexal/internal/app/status"
	"vexal/internal/domain/gameclock"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const sessionIDHeader = "X-Session-ID"
const sessionKeyHeader = "X-Session-Key"

type Handler struct {
	RegisterUC auth.RegisterUseCase
	AuthUC     auth.VerifyUseCase
	GMUC       gm.UseCase
	StatusUC   status.UseCase
	CatalogUC  status.CatalogUseCase
	ReplayUC   replay.UseCase
	KPI        kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/session/register", h.register)
	api.POST("/gm", h.gm)
	api.GET("/state", h.state)
	api.GET("/history", h.history)
	api.GET("/conditions", h.conditions)

	s.GET("/ops/kpi", h.kpi)
}

type gmRequest struct {
	Prompt string              `json:"prompt"`
	Mode   string              `json:"mode,omitempty"`
	Time   *gameclock.TimeSpec `json:"time,omitempty"`
}

func (h Handler) gm(c context.Context, ctx *app.RequestContext) {
	sessionID, err := h.requireSession(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body gmRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.GMUC.Execute(c, gm.Request{
		SessionID: sessionID,
		Prompt:    body.Prompt,
		Mode:      body.Mode,
		Time:      body.Time,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	sessionID, err := h.requireSession(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.StatusUC.Execute(c, status.Request{SessionID: sessionID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	sessionID, err := h.requireSession(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID:    sessionID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) conditions(c context.Context, ctx *app.RequestContext) {
	resp, err := h.CatalogUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	resp, err := h.RegisterUC.Execute(c, auth.RegisterRequest{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingSessionIDHeader = errors.New("missing x-session-id header")
var ErrMissingSessionKeyHeader = errors.New("missing x-session-key header")
var ErrMissingSessionCredentials = errors.New("missing session credentials")

func (h Handler) requireSession(c context.Context, ctx *app.RequestContext) (string, error) {
	sessionID := strings.TrimSpace(string(ctx.GetHeader(sessionIDHeader)))
	sessionKey := strings.TrimSpace(string(ctx.GetHeader(sessionKeyHeader)))
	if sessionID == "" && sessionKey == "" {
		return "", ErrMissingSessionCredentials
	}
	if sessionID == "" {
		return "", ErrMissingSessionIDHeader
	}
	if sessionKey == "" {
		return "", ErrMissingSessionKeyHeader
	}
	if err := h.AuthUC.Execute(c, auth.VerifyRequest{
		SessionID:  sessionID,
		SessionKey: sessionKey,
	}); err != nil {
		return "", err
	}
	return sessionID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingSessionCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_session_credentials", err.Error())
	case errors.Is(err, ErrMissingSessionIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_session_id", err.Error())
	case errors.Is(err, ErrMissingSessionKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_session_key", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_session_credentials", err.Error())
	case errors.Is(err, gm.ErrEmptyCommand):
		writeErrorBody(ctx, consts.StatusBadRequest, "empty_command", gm.EmptyCommandMessage)
	case errors.Is(err, gm.ErrInvalidMode):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_mode", err.Error())
	case errors.Is(err, gm.ErrStoreUnavailable):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "store_unavailable", "state store unavailable")
	case errors.Is(err, gm.ErrInvalidRequest),
		errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
