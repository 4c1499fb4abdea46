package invite_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/invite"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/platform"
	platformmocks "github.com/hylexhq/guildflow/internal/platform/mocks"
	"github.com/hylexhq/guildflow/internal/repository"
	repomocks "github.com/hylexhq/guildflow/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	invites      *repomocks.InviteRepository
	processes    *repomocks.ProcessRepository
	participants *repomocks.ParticipantRepository
	notifier     *platformmocks.Notifier
	links        *platformmocks.LinkIssuer
	svc          *invite.Service
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		invites:      &repomocks.InviteRepository{},
		processes:    &repomocks.ProcessRepository{},
		participants: &repomocks.ParticipantRepository{},
		notifier:     &platformmocks.Notifier{},
		links:        &platformmocks.LinkIssuer{},
	}
	f.svc = invite.NewService(
		f.invites, f.processes, f.participants,
		f.notifier, f.links,
		24*time.Hour,
		slog.New(slog.DiscardHandler),
	)
	return f
}

func activeProcess() *process.Process {
	return &process.Process{ID: "p1", Name: "drive", Status: process.StatusActive}
}

func TestService_Send(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.processes.On("GetActive", mock.Anything).Return(activeProcess(), nil)
	f.participants.On("GetByUser", mock.Anything, "p1", "u1").Return(nil, repository.ErrNotFound)
	f.notifier.On("SendDirect", mock.Anything, "u1", "join us").
		Return(platform.MessageHandle{ChannelID: "dm:u1", MessageID: "m1"}, nil)
	f.invites.On("CreatePending", mock.Anything, mock.Anything).Return(nil, nil)

	result, conflict, err := f.svc.Send(ctx, invite.SendRequest{
		UserID: "u1", Username: "alice", SentBy: "staff-1", Message: "join us",
	})
	require.NoError(t, err)
	require.Nil(t, conflict)
	require.False(t, result.Degraded)
	require.Equal(t, "m1", result.Invite.MessageID)
	require.Equal(t, invite.StatusPending, result.Invite.Status)
	require.NotNil(t, result.Invite.ExpiresAt)
}

func TestService_SendDegradedWhenDMFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.processes.On("GetActive", mock.Anything).Return(activeProcess(), nil)
	f.participants.On("GetByUser", mock.Anything, "p1", "u1").Return(nil, repository.ErrNotFound)
	f.notifier.On("SendDirect", mock.Anything, "u1", mock.Anything).
		Return(platform.MessageHandle{}, platform.ErrRecipientUnreachable)
	f.invites.On("CreatePending", mock.Anything, mock.Anything).Return(nil, nil)

	result, conflict, err := f.svc.Send(ctx, invite.SendRequest{UserID: "u1", Username: "alice", SentBy: "staff-1"})
	require.NoError(t, err)
	require.Nil(t, conflict)
	require.True(t, result.Degraded)
	require.Equal(t, invite.MessageUnavailable, result.Invite.MessageID)
	require.NotEmpty(t, result.DeliveryError)
	f.invites.AssertExpectations(t)
}

func TestService_SendConflictOnPendingInvite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	existing := &invite.Invite{ID: "i0", UserID: "u1", Status: invite.StatusPending}
	f.processes.On("GetActive", mock.Anything).Return(activeProcess(), nil)
	f.participants.On("GetByUser", mock.Anything, "p1", "u1").Return(nil, repository.ErrNotFound)
	f.notifier.On("SendDirect", mock.Anything, "u1", mock.Anything).
		Return(platform.MessageHandle{MessageID: "m1"}, nil)
	f.invites.On("CreatePending", mock.Anything, mock.Anything).Return(existing, repository.ErrDuplicate)

	result, conflict, err := f.svc.Send(ctx, invite.SendRequest{UserID: "u1", Username: "alice", SentBy: "staff-1"})
	require.NoError(t, err)
	require.Nil(t, result)
	require.NotNil(t, conflict)
	require.Equal(t, "i0", conflict.Existing.ID)
}

func TestService_SendRequiresActiveProcess(t *testing.T) {
	f := newFixture()
	f.processes.On("GetActive", mock.Anything).Return(nil, repository.ErrNotFound)

	_, _, err := f.svc.Send(context.Background(), invite.SendRequest{UserID: "u1", SentBy: "staff-1"})
	require.ErrorIs(t, err, process.ErrNoActiveProcess)
}

func TestService_SendRejectsExistingParticipant(t *testing.T) {
	f := newFixture()
	f.processes.On("GetActive", mock.Anything).Return(activeProcess(), nil)
	f.participants.On("GetByUser", mock.Anything, "p1", "u1").
		Return(&process.Participant{ID: "pa1", UserID: "u1"}, nil)

	_, _, err := f.svc.Send(context.Background(), invite.SendRequest{UserID: "u1", SentBy: "staff-1"})
	require.ErrorIs(t, err, invite.ErrAlreadyParticipant)
}

func TestService_RespondDecline(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	f.invites.On("GetByUserMessage", mock.Anything, "u1", "m1").
		Return(&invite.Invite{ID: "i1", UserID: "u1", Status: invite.StatusPending, ExpiresAt: &expires}, nil)
	f.invites.On("UpdateStatus", mock.Anything, "i1", invite.StatusPending, invite.StatusDeclined, mock.Anything, (*string)(nil)).
		Return(nil)

	result, err := f.svc.Respond(ctx, invite.RespondRequest{UserID: "u1", MessageID: "m1", Accept: false})
	require.NoError(t, err)
	require.Equal(t, invite.StatusDeclined, result.Invite.Status)
	require.Nil(t, result.InviteURL)
	require.Nil(t, result.Participant)
}

func TestService_RespondAcceptIssuesLinkAndEnrolls(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	f.invites.On("GetByUserMessage", mock.Anything, "u1", "m1").
		Return(&invite.Invite{ID: "i1", UserID: "u1", Username: "alice", Status: invite.StatusPending, ExpiresAt: &expires}, nil)
	f.links.On("CreateSingleUseLink", mock.Anything, "community-join", 24*time.Hour).
		Return("guildflow://join/abc", nil)
	f.invites.On("UpdateStatus", mock.Anything, "i1", invite.StatusPending, invite.StatusAccepted, mock.Anything, mock.Anything).
		Return(nil)
	f.processes.On("GetActive", mock.Anything).Return(activeProcess(), nil)
	f.participants.On("Add", mock.Anything, mock.Anything).Return(nil, nil)

	result, err := f.svc.Respond(ctx, invite.RespondRequest{UserID: "u1", MessageID: "m1", Accept: true})
	require.NoError(t, err)
	require.Equal(t, invite.StatusAccepted, result.Invite.Status)
	require.NotNil(t, result.InviteURL)
	require.Equal(t, "guildflow://join/abc", *result.InviteURL)
	require.NotNil(t, result.Participant)
	require.Equal(t, "u1", result.Participant.UserID)
	require.False(t, result.Degraded)
}

func TestService_RespondAcceptDegradedWhenLinkFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	f.invites.On("GetByUserMessage", mock.Anything, "u1", "m1").
		Return(&invite.Invite{ID: "i1", UserID: "u1", Status: invite.StatusPending, ExpiresAt: &expires}, nil)
	f.links.On("CreateSingleUseLink", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("gateway down"))
	f.invites.On("UpdateStatus", mock.Anything, "i1", invite.StatusPending, invite.StatusAccepted, mock.Anything, (*string)(nil)).
		Return(nil)
	f.processes.On("GetActive", mock.Anything).Return(nil, repository.ErrNotFound)

	// The acceptance is still recorded even though the link was lost.
	result, err := f.svc.Respond(ctx, invite.RespondRequest{UserID: "u1", MessageID: "m1", Accept: true})
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.Nil(t, result.InviteURL)
	require.Equal(t, invite.StatusAccepted, result.Invite.Status)
}

func TestService_RespondLosesRaceToSweep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	f.invites.On("GetByUserMessage", mock.Anything, "u1", "m1").
		Return(&invite.Invite{ID: "i1", UserID: "u1", Status: invite.StatusPending, ExpiresAt: &expires}, nil)
	f.links.On("CreateSingleUseLink", mock.Anything, mock.Anything, mock.Anything).
		Return("guildflow://join/abc", nil)
	f.invites.On("UpdateStatus", mock.Anything, "i1", invite.StatusPending, invite.StatusAccepted, mock.Anything, mock.Anything).
		Return(repository.ErrConflict)

	_, err := f.svc.Respond(ctx, invite.RespondRequest{UserID: "u1", MessageID: "m1", Accept: true})
	require.ErrorIs(t, err, invite.ErrAlreadyResponded)
}

func TestService_RespondExpiredInvite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expires := time.Now().Add(-time.Minute)
	f.invites.On("GetByUserMessage", mock.Anything, "u1", "m1").
		Return(&invite.Invite{ID: "i1", UserID: "u1", Status: invite.StatusPending, ExpiresAt: &expires}, nil)
	f.invites.On("UpdateStatus", mock.Anything, "i1", invite.StatusPending, invite.StatusExpired, mock.Anything, (*string)(nil)).
		Return(nil)

	_, err := f.svc.Respond(ctx, invite.RespondRequest{UserID: "u1", MessageID: "m1", Accept: true})
	require.ErrorIs(t, err, invite.ErrInviteExpired)
}

func TestService_RespondAlreadyResponded(t *testing.T) {
	f := newFixture()
	f.invites.On("GetByUserMessage", mock.Anything, "u1", "m1").
		Return(&invite.Invite{ID: "i1", UserID: "u1", Status: invite.StatusAccepted}, nil)

	_, err := f.svc.Respond(context.Background(), invite.RespondRequest{UserID: "u1", MessageID: "m1", Accept: true})
	require.ErrorIs(t, err, invite.ErrAlreadyResponded)
}

func TestService_ConfirmEntryTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.invites.On("GetLatestByUser", mock.Anything, "u1").
		Return(&invite.Invite{ID: "i1", UserID: "u1", Status: invite.StatusAccepted}, nil)
	f.invites.On("UpdateStatus", mock.Anything, "i1", invite.StatusAccepted, invite.StatusEntered, mock.Anything, (*string)(nil)).
		Return(nil)

	inv, err := f.svc.ConfirmEntry(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, invite.StatusEntered, inv.Status)
}

func TestService_ExpireSweep(t *testing.T) {
	f := newFixture()
	f.invites.On("ExpirePending", mock.Anything, mock.Anything).Return(int64(3), nil)

	n, err := f.svc.ExpireSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}
