package mcp

import (
	"errors"
	"fmt"

	"github.com/hylexhq/guildflow/internal/domain/interview"
	"github.com/hylexhq/guildflow/internal/domain/invite"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/domain/ticket"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unmapped errors come
// back nil so callers can wrap them generically without leaking store
// internals.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, invite.ErrInviteNotFound):
		return &APIError{Code: "INVITE_NOT_FOUND", Message: "invite not found", RecoveryHint: "Check the invite ID or user"}
	case errors.Is(err, invite.ErrAlreadyResponded):
		return &APIError{Code: "ALREADY_RESPONDED", Message: "invite already left the pending state", RecoveryHint: "Fetch invite status for the current state"}
	case errors.Is(err, invite.ErrInviteExpired):
		return &APIError{Code: "INVITE_EXPIRED", Message: "invite expired", RecoveryHint: "Send a fresh invite"}
	case errors.Is(err, invite.ErrAlreadyParticipant):
		return &APIError{Code: "ALREADY_PARTICIPANT", Message: "user already participates in the active process"}
	case errors.Is(err, process.ErrNoActiveProcess):
		return &APIError{Code: "NO_ACTIVE_PROCESS", Message: "no recruitment process is active", RecoveryHint: "Start a process first"}
	case errors.Is(err, process.ErrProcessNotFound):
		return &APIError{Code: "PROCESS_NOT_FOUND", Message: "process not found"}
	case errors.Is(err, process.ErrParticipantNotFound):
		return &APIError{Code: "PARTICIPANT_NOT_FOUND", Message: "user is not a participant of the active process", RecoveryHint: "Enroll the user first"}
	case errors.Is(err, interview.ErrNoActiveInterview):
		return &APIError{Code: "NO_ACTIVE_INTERVIEW", Message: "no interview in progress for this user"}
	case errors.Is(err, interview.ErrInvalidResult):
		return &APIError{Code: "INVALID_RESULT", Message: "result must be approved or rejected"}
	case errors.Is(err, interview.ErrInvalidScore):
		return &APIError{Code: "INVALID_SCORE", Message: "score must be an integer between 0 and 10"}
	case errors.Is(err, ticket.ErrTicketNotFound):
		return &APIError{Code: "TICKET_NOT_FOUND", Message: "ticket not found"}
	case errors.Is(err, ticket.ErrTicketClosed):
		return &APIError{Code: "TICKET_CLOSED", Message: "ticket already closed"}
	case errors.Is(err, ticket.ErrClosePending):
		return &APIError{Code: "CLOSE_PENDING", Message: "a close countdown is already running", RecoveryHint: "Cancel it first or let it finish"}
	case errors.Is(err, invite.ErrInvalidInput),
		errors.Is(err, process.ErrInvalidInput),
		errors.Is(err, interview.ErrInvalidInput),
		errors.Is(err, ticket.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

// asToolError maps a domain error, falling back to a generic internal
// error so store details never reach the client.
func asToolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return &APIError{Code: "INTERNAL", Message: "internal error"}
}
