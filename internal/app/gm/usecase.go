package gm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vexal/internal/app/ports"
	"vexal/internal/domain/command"
	"vexal/internal/domain/condition"
	"vexal/internal/domain/gameclock"
	"vexal/internal/domain/lore"
	"vexal/internal/domain/session"
	"vexal/internal/domain/stats"
)

const (
	ModeStatic    = "static"
	ModeHeuristic = "heuristic"
	ModeLLM       = "llm"

	ProviderStatic    = "static"
	ProviderHeuristic = "heuristic"
	ProviderFallback  = "fallback"

	EmptyCommandMessage = "Command input cannot be empty."
)

var (
	ErrInvalidRequest   = errors.New("invalid gm request")
	ErrEmptyCommand     = errors.New("empty command")
	ErrInvalidMode      = errors.New("invalid gm mode")
	ErrStoreUnavailable = errors.New("state store unavailable")
)

func ValidMode(mode string) bool {
	switch mode {
	case ModeStatic, ModeHeuristic, ModeLLM:
		return true
	}
	return false
}

type UseCase struct {
	TxManager ports.TxManager
	StateRepo ports.SessionStateRepository
	Turns     ports.TurnRepository
	Narrator  ports.NarrativeGenerator
	Metrics   ports.CommandMetrics
	Locks     *SessionLocks

	Interpreter  command.Interpreter
	Registry     *condition.Registry
	Resolver     *stats.Resolver
	Clock        gameclock.Config
	DefaultMode  string
	ReplyEffects []command.ReplyEffect
	SeedLore     lore.Book
	// NarrativeTimeout bounds a single narrator call. Zero leaves the
	// request context as is.
	NarrativeTimeout time.Duration
	Now              func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		u.recordRejected()
		return Response{}, ErrEmptyCommand
	}
	if req.SessionID == "" || u.StateRepo == nil {
		return Response{}, ErrInvalidRequest
	}
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = u.DefaultMode
	}
	if mode == "" {
		mode = ModeStatic
	}
	if !ValidMode(mode) {
		return Response{}, ErrInvalidMode
	}
	if req.Time != nil {
		if err := req.Time.Validate(); err != nil {
			return Response{}, errors.Join(ErrInvalidRequest, err)
		}
	}

	if u.Locks != nil {
		unlock := u.Locks.Lock(req.SessionID)
		defer unlock()
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	st, err := u.StateRepo.GetBySessionID(ctx, req.SessionID)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		st = session.New(req.SessionID, u.Clock, u.SeedLore, nowFn().UTC())
		st.Version = 0
	case err != nil:
		slog.Error("load session state failed", "session_id", req.SessionID, "error", err)
		return Response{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	st.Normalize(u.Clock)
	expectedVersion := st.Version

	interp := u.Interpreter
	if len(interp.Rules) == 0 {
		interp = command.Default()
	}
	outcome := interp.Process(req.Prompt, &st.Player)
	if outcome.PuzzleSolved {
		st.SetFlag(session.FlagPuzzleSolved)
	}
	st.TurnCount++
	u.invalidate(req.SessionID)

	narr := u.narrate(ctx, mode, req.Prompt, outcome, st)
	var applied []string
	if mode == ModeLLM && narr.Provider != ProviderFallback {
		applied = command.ApplyReplyEffects(narr.Text, u.ReplyEffects, &st.Player)
		if len(applied) > 0 {
			u.invalidate(req.SessionID)
		}
	}
	var extracted lore.Extraction
	if mode != ModeStatic {
		extracted = st.Lore.Extract(narr.Text, st.TurnCount)
	}

	spec := gameclock.TimeSpec{}
	switch {
	case req.Time != nil && !req.Time.IsZero():
		spec = *req.Time
	case narr.TimeAdvance != nil && narr.TimeAdvance.Validate() == nil:
		spec = *narr.TimeAdvance
	}
	gameTime := st.Clock.Advance(spec, u.Clock)

	now := nowFn().UTC()
	st.Version = expectedVersion + 1
	st.UpdatedAt = now

	resp := Response{
		Response:     outcome.Narrative,
		Narrative:    narr.Text,
		Rule:         outcome.Rule,
		Mode:         mode,
		Provider:     narr.Provider,
		GameTime:     gameTime,
		TurnCount:    st.TurnCount,
		XPAwarded:    outcome.XPAwarded,
		LeveledUp:    outcome.LeveledUp,
		Expired:      outcome.Expired,
		ReplyEffects: applied,
		Lore:         extracted,
		Persisted:    true,
		State:        st.Player,
	}

	if err := u.persist(ctx, st, expectedVersion, ports.TurnRecord{
		SessionID:  req.SessionID,
		TurnNumber: st.TurnCount,
		Command:    req.Prompt,
		Mode:       mode,
		Rule:       outcome.Rule,
		Response:   outcome.Narrative,
		Narrative:  narr.Text,
		Provider:   narr.Provider,
		GameTime:   gameTime,
		OccurredAt: now,
	}); err != nil {
		slog.Warn("persist session state failed", "session_id", req.SessionID, "turn", st.TurnCount, "error", err)
		resp.Persisted = false
		resp.PersistError = err.Error()
		if u.Metrics != nil {
			u.Metrics.RecordPersistFailure()
		}
	}
	if u.Metrics != nil {
		u.Metrics.RecordCommand(mode, outcome.Rule)
	}
	slog.Info("command processed",
		"session_id", req.SessionID,
		"turn", st.TurnCount,
		"mode", mode,
		"rule", outcome.Rule,
		"provider", narr.Provider,
		"persisted", resp.Persisted)
	return resp, nil
}

func (u UseCase) narrate(ctx context.Context, mode, prompt string, outcome command.Outcome, st session.State) ports.Narrative {
	switch mode {
	case ModeStatic:
		return ports.Narrative{Provider: ProviderStatic}
	case ModeHeuristic:
		return ports.Narrative{Text: HeuristicNarrative(prompt), Provider: ProviderHeuristic}
	}

	fallback := ports.Narrative{Text: FallbackNarrative(prompt), Provider: ProviderFallback}
	if u.Narrator == nil {
		u.recordFallback(mode)
		return fallback
	}

	var eff stats.Effective
	if u.Resolver != nil {
		eff = u.Resolver.Resolve(st.SessionID, st.Player)
	} else {
		eff = stats.ForState(st.Player, u.Registry)
	}
	callCtx := ctx
	if u.NarrativeTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, u.NarrativeTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := u.Narrator.Generate(callCtx, ports.NarrativeRequest{
		Command:  prompt,
		Outcome:  outcome.Narrative,
		Rule:     outcome.Rule,
		Summary:  summarize(st, eff),
		GameTime: st.Clock.Format(),
	})
	if err != nil || strings.TrimSpace(out.Text) == "" {
		slog.Warn("narrative generation failed, using fallback", "session_id", st.SessionID, "error", err)
		u.recordFallback(mode)
		return fallback
	}
	if u.Metrics != nil {
		u.Metrics.RecordNarrativeLatency(out.Provider, time.Since(start))
	}
	return out
}

// persist saves the state and appends the turn in one transaction. The
// narrator call stays outside it.
func (u UseCase) persist(ctx context.Context, st session.State, expectedVersion int64, turn ports.TurnRecord) error {
	save := func(txCtx context.Context) error {
		if err := u.StateRepo.SaveWithVersion(txCtx, st, expectedVersion); err != nil {
			return err
		}
		if u.Turns == nil {
			return nil
		}
		return u.Turns.Append(txCtx, turn)
	}
	if u.TxManager == nil {
		return save(ctx)
	}
	return u.TxManager.RunInTx(ctx, save)
}

func (u UseCase) invalidate(sessionID string) {
	if u.Resolver != nil {
		u.Resolver.Invalidate(sessionID)
	}
}

func (u UseCase) recordRejected() {
	if u.Metrics != nil {
		u.Metrics.RecordRejected()
	}
}

func (u UseCase) recordFallback(mode string) {
	if u.Metrics != nil {
		u.Metrics.RecordNarrativeFallback(mode)
	}
}

func HeuristicNarrative(prompt string) string {
	return fmt.Sprintf("Narrative: Amara acts upon '%s'. (Heuristic parsing used).", prompt)
}

func FallbackNarrative(prompt string) string {
	return fmt.Sprintf("Narrative: Amara acts upon '%s'.", prompt)
}
