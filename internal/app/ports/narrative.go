package ports

import (
	"context"

	"vexal/internal/domain/gameclock"
)

type NarrativeRequest struct {
	Command string
	// Outcome is the text produced by the rule engine for this command.
	Outcome  string
	Rule     string
	Summary  string
	GameTime string
}

type Narrative struct {
	Text        string
	TimeAdvance *gameclock.TimeSpec
	Provider    string
}

type NarrativeGenerator interface {
	Generate(ctx context.Context, req NarrativeRequest) (Narrative, error)
}
