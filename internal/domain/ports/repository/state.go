package repository

import (
	"context"
)

// Steps of the category -> email conversation flow.
const (
	StepAwaitingEmail = "awaiting_email"
)

// ConversationState holds a user's progress through the email delivery flow.
// AssetKey must be set whenever Step is StepAwaitingEmail.
type ConversationState struct {
	Step     string `json:"step"`
	AssetKey string `json:"asset_key,omitempty"`
}

func (s *ConversationState) AwaitingEmail() bool {
	return s != nil && s.Step == StepAwaitingEmail && s.AssetKey != ""
}

// StateRepository is the port for per-user conversational state. GetState
// returns domain.ErrNotFound when the user has no stored state.
type StateRepository interface {
	SetState(ctx context.Context, tgID int64, state *ConversationState) error
	GetState(ctx context.Context, tgID int64) (*ConversationState, error)
	ClearState(ctx context.Context, tgID int64) error
}
