package httpadapter

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"testing"
	"time"

	metricsinmem "vexal/internal/adapter/metrics/inmemory"
	"vexal/internal/adapter/repo/memory"
	"vexal/internal/app/auth"
	"vexal/internal/app/gm"
	"vexal/internal/app/ports"
	"vexal/internal/app/replay"
	"vexal/internal/app/status"
	"vexal/internal/domain/condition"
	"vexal/internal/domain/gameclock"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func TestRequireSession_FromHeaders(t *testing.T) {
	salt := []byte("salt")
	key := "k1"
	h := Handler{
		AuthUC: auth.VerifyUseCase{Credentials: fakeCredentialStore{
			cred: ports.SessionCredentialRecord{
				SessionID: "ses_1",
				KeySalt:   salt,
				KeyHash:   hashForTest(salt, key),
				Status:    auth.CredentialStatusActive,
			},
		}},
	}
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(sessionIDHeader, "ses_1")
	ctx.Request.Header.Set(sessionKeyHeader, key)

	sessionID, err := h.requireSession(context.Background(), ctx)
	if err != nil {
		t.Fatalf("requireSession error: %v", err)
	}
	if sessionID != "ses_1" {
		t.Fatalf("unexpected session id: %q", sessionID)
	}
}

func TestRequireSession_MissingHeaders(t *testing.T) {
	h := Handler{}

	ctx := &app.RequestContext{}
	if _, err := h.requireSession(context.Background(), ctx); err != ErrMissingSessionCredentials {
		t.Fatalf("expected ErrMissingSessionCredentials, got %v", err)
	}

	ctx = &app.RequestContext{}
	ctx.Request.Header.Set(sessionIDHeader, "ses_1")
	if _, err := h.requireSession(context.Background(), ctx); err != ErrMissingSessionKeyHeader {
		t.Fatalf("expected ErrMissingSessionKeyHeader, got %v", err)
	}

	ctx = &app.RequestContext{}
	ctx.Request.Header.Set(sessionKeyHeader, "k")
	if _, err := h.requireSession(context.Background(), ctx); err != ErrMissingSessionIDHeader {
		t.Fatalf("expected ErrMissingSessionIDHeader, got %v", err)
	}
}

func TestRequireSession_InvalidCredentials(t *testing.T) {
	h := Handler{
		AuthUC: auth.VerifyUseCase{Credentials: fakeCredentialStore{}},
	}
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(sessionIDHeader, "ses_1")
	ctx.Request.Header.Set(sessionKeyHeader, "wrong")

	_, err := h.requireSession(context.Background(), ctx)
	if err != auth.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{gm.ErrEmptyCommand, consts.StatusBadRequest, "empty_command", gm.EmptyCommandMessage},
		{gm.ErrInvalidMode, consts.StatusBadRequest, "invalid_mode", ""},
		{errors.Join(gm.ErrStoreUnavailable, errors.New("dial tcp")), consts.StatusServiceUnavailable, "store_unavailable", "state store unavailable"},
		{replay.ErrInvalidRequest, consts.StatusBadRequest, "bad_request", ""},
		{auth.ErrInvalidCredentials, consts.StatusUnauthorized, "invalid_session_credentials", ""},
		{ports.ErrNotFound, consts.StatusNotFound, "not_found", ""},
		{ports.ErrConflict, consts.StatusConflict, "conflict", ""},
		{errors.New("boom"), consts.StatusInternalServerError, "internal_error", "internal error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)

		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status mismatch: got=%d want=%d", tc.err, got, tc.status)
		}
		var body map[string]map[string]string
		if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if got := body["error"]["code"]; got != tc.code {
			t.Fatalf("%v: code mismatch: got=%q want=%q", tc.err, got, tc.code)
		}
		if tc.message != "" && body["error"]["message"] != tc.message {
			t.Fatalf("%v: message mismatch: got=%q want=%q", tc.err, body["error"]["message"], tc.message)
		}
	}
}

func TestRegister_OK(t *testing.T) {
	h := newTestHandler()
	ctx := &app.RequestContext{}

	h.register(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	for _, key := range []string{"session_id", "session_key", "issued_at"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("expected %s in response", key)
		}
	}
}

func TestGM_EmptyPromptRejectedWithoutMutation(t *testing.T) {
	h := newTestHandler()
	id, key := registerForTest(t, h)

	ctx := authedContext(id, key)
	ctx.Request.SetBody([]byte(`{"prompt":"   "}`))
	h.gm(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string]map[string]string
	_ = json.Unmarshal(ctx.Response.Body(), &body)
	if body["error"]["code"] != "empty_command" || body["error"]["message"] != "Command input cannot be empty." {
		t.Fatalf("unexpected error body: %v", body)
	}

	st, err := h.StatusUC.Execute(context.Background(), status.Request{SessionID: id})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.TurnCount != 0 || st.Version != 1 {
		t.Fatalf("state mutated by rejected command: turns=%d version=%d", st.TurnCount, st.Version)
	}
}

func TestGM_OutOfRangeTimeIsBadRequest(t *testing.T) {
	h := newTestHandler()
	id, key := registerForTest(t, h)

	ctx := authedContext(id, key)
	ctx.Request.SetBody([]byte(`{"prompt":"wait","time":{"hours":3000000}}`))
	h.gm(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string]map[string]string
	_ = json.Unmarshal(ctx.Response.Body(), &body)
	if body["error"]["code"] != "bad_request" {
		t.Fatalf("unexpected error body: %v", body)
	}

	st, err := h.StatusUC.Execute(context.Background(), status.Request{SessionID: id})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.TurnCount != 0 || st.GameTime != "Year 1000-01-01 08:00" {
		t.Fatalf("state mutated by rejected command: turns=%d time=%q", st.TurnCount, st.GameTime)
	}
}

func TestGM_InvalidJSON(t *testing.T) {
	h := newTestHandler()
	id, key := registerForTest(t, h)

	ctx := authedContext(id, key)
	ctx.Request.SetBody([]byte(`{"prompt":`))
	h.gm(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestGM_CommandFlowUpdatesStateAndHistory(t *testing.T) {
	h := newTestHandler()
	id, key := registerForTest(t, h)

	ctx := authedContext(id, key)
	ctx.Request.SetBody([]byte(`{"prompt":"A goblin attacks!","mode":"heuristic"}`))
	h.gm(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var resp gm.Response
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("unmarshal gm response: %v", err)
	}
	if resp.Rule != "goblin_attack" || !resp.Persisted || resp.TurnCount != 1 {
		t.Fatalf("unexpected gm response: %+v", resp)
	}
	if resp.Narrative != "Narrative: Amara acts upon 'A goblin attacks!'. (Heuristic parsing used)." {
		t.Fatalf("unexpected heuristic narrative: %q", resp.Narrative)
	}

	ctx = authedContext(id, key)
	h.state(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("state status mismatch: got=%d want=%d", got, want)
	}
	var st status.Response
	if err := json.Unmarshal(ctx.Response.Body(), &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.State.Pools.HP.Current != 85 || len(st.Conditions) != 1 || st.Conditions[0].Name != condition.Wounded {
		t.Fatalf("unexpected state view: hp=%d conditions=%+v", st.State.Pools.HP.Current, st.Conditions)
	}
	if st.Effective.HPMaxPenalty != -20 {
		t.Fatalf("expected Wounded hp max penalty, got %d", st.Effective.HPMaxPenalty)
	}

	ctx = authedContext(id, key)
	ctx.Request.SetRequestURI("/api/history?limit=5")
	h.history(context.Background(), ctx)
	var hist replay.Response
	if err := json.Unmarshal(ctx.Response.Body(), &hist); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(hist.Turns) != 1 || hist.Turns[0].Command != "A goblin attacks!" || hist.LatestTurn != 1 {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestGM_RequiresCredentials(t *testing.T) {
	h := newTestHandler()
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"prompt":"look"}`))
	h.gm(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestConditions_ListsRegistry(t *testing.T) {
	h := newTestHandler()
	ctx := &app.RequestContext{}
	h.conditions(context.Background(), ctx)

	var body status.CatalogResponse
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Conditions) != 9 || body.Conditions[0].Color == "" {
		t.Fatalf("unexpected catalog: %+v", body.Conditions)
	}
}

func TestKPI_SnapshotAfterCommand(t *testing.T) {
	h := newTestHandler()
	id, key := registerForTest(t, h)

	ctx := authedContext(id, key)
	ctx.Request.SetBody([]byte(`{"prompt":"solve the riddle"}`))
	h.gm(context.Background(), ctx)

	ctx = &app.RequestContext{}
	h.kpi(context.Background(), ctx)
	var snap metricsinmem.Snapshot
	if err := json.Unmarshal(ctx.Response.Body(), &snap); err != nil {
		t.Fatalf("unmarshal kpi: %v", err)
	}
	if snap.CommandTotal != 1 || snap.ByMode["static"] != 1 {
		t.Fatalf("unexpected kpi: %+v", snap)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func newTestHandler() Handler {
	store := memory.NewStore()
	states := memory.NewSessionStateRepo(store)
	creds := memory.NewSessionCredentialRepo(store)
	turns := memory.NewTurnRepo(store)
	tx := memory.NewTxManager(store)
	reg := condition.Default()
	clock := gameclock.DefaultConfig()
	kpi := metricsinmem.NewRecorder()
	now := func() time.Time { return time.Unix(1700000000, 0).UTC() }

	return Handler{
		RegisterUC: auth.RegisterUseCase{Credentials: creds, StateRepo: states, TxManager: tx, Clock: clock, Now: now},
		AuthUC:     auth.VerifyUseCase{Credentials: creds},
		GMUC: gm.UseCase{
			TxManager: tx,
			StateRepo: states,
			Turns:     turns,
			Metrics:   kpi,
			Locks:     gm.NewSessionLocks(),
			Registry:  reg,
			Clock:     clock,
			Now:       now,
		},
		StatusUC:  status.UseCase{StateRepo: states, Registry: reg, Clock: clock},
		CatalogUC: status.CatalogUseCase{Registry: reg},
		ReplayUC:  replay.UseCase{Turns: turns},
		KPI:       kpi,
	}
}

func registerForTest(t *testing.T, h Handler) (string, string) {
	t.Helper()
	resp, err := h.RegisterUC.Execute(context.Background(), auth.RegisterRequest{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return resp.SessionID, resp.SessionKey
}

func authedContext(id, key string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(sessionIDHeader, id)
	ctx.Request.Header.Set(sessionKeyHeader, key)
	return ctx
}

type fakeCredentialStore struct {
	cred ports.SessionCredentialRecord
}

func (s fakeCredentialStore) Create(_ context.Context, _ ports.SessionCredentialRecord) error {
	return nil
}

func (s fakeCredentialStore) GetBySessionID(_ context.Context, _ string) (ports.SessionCredentialRecord, error) {
	if s.cred.SessionID == "" {
		return ports.SessionCredentialRecord{}, ports.ErrNotFound
	}
	return s.cred, nil
}

func hashForTest(salt []byte, key string) []byte {
	b := make([]byte, 0, len(salt)+len(key))
	b = append(b, salt...)
	b = append(b, key...)
	sum := sha256.Sum256(b)
	out := make([]byte, len(sum))
	copy(out, sum[:])
	return out
}
