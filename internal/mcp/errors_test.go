package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hylexhq/guildflow/internal/domain/interview"
	"github.com/hylexhq/guildflow/internal/domain/invite"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/domain/ticket"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{invite.ErrInviteNotFound, "INVITE_NOT_FOUND"},
		{invite.ErrAlreadyResponded, "ALREADY_RESPONDED"},
		{invite.ErrInviteExpired, "INVITE_EXPIRED"},
		{invite.ErrAlreadyParticipant, "ALREADY_PARTICIPANT"},
		{process.ErrNoActiveProcess, "NO_ACTIVE_PROCESS"},
		{process.ErrParticipantNotFound, "PARTICIPANT_NOT_FOUND"},
		{interview.ErrNoActiveInterview, "NO_ACTIVE_INTERVIEW"},
		{interview.ErrInvalidScore, "INVALID_SCORE"},
		{ticket.ErrTicketClosed, "TICKET_CLOSED"},
		{ticket.ErrClosePending, "CLOSE_PENDING"},
		{process.ErrInvalidInput, "INVALID_INPUT"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			apiErr := MapError(tc.err)
			require.NotNil(t, apiErr)
			require.Equal(t, tc.code, apiErr.Code)
		})
	}
}

func TestMapError_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("handling tool call: %w", ticket.ErrTicketNotFound)
	apiErr := MapError(wrapped)
	require.NotNil(t, apiErr)
	require.Equal(t, "TICKET_NOT_FOUND", apiErr.Code)
}

func TestMapError_UnknownError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("disk full")))
}

func TestAsToolError_MasksInternals(t *testing.T) {
	err := asToolError(errors.New("sqlite: database is locked"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INTERNAL", apiErr.Code)
	require.NotContains(t, apiErr.Message, "sqlite")
}
