package interview_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/interview"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/repository"
	repomocks "github.com/hylexhq/guildflow/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	interviews   *repomocks.InterviewRepository
	processes    *repomocks.ProcessRepository
	participants *repomocks.ParticipantRepository
	svc          *interview.Service
}

func newFixture() *fixture {
	f := &fixture{
		interviews:   &repomocks.InterviewRepository{},
		processes:    &repomocks.ProcessRepository{},
		participants: &repomocks.ParticipantRepository{},
	}
	f.svc = interview.NewService(f.interviews, f.processes, f.participants, slog.New(slog.DiscardHandler))
	return f
}

func (f *fixture) withActiveProcess() *fixture {
	f.processes.On("GetActive", mock.Anything).
		Return(&process.Process{ID: "p1", Status: process.StatusActive}, nil)
	return f
}

func TestService_Begin(t *testing.T) {
	f := newFixture().withActiveProcess()
	f.participants.On("GetByUser", mock.Anything, "p1", "u1").
		Return(&process.Participant{ID: "pa1", UserID: "u1", Username: "alice"}, nil)
	f.interviews.On("Create", mock.Anything, mock.Anything).Return(nil, nil)
	f.participants.On("UpdateStatus", mock.Anything, "pa1", process.ParticipantInterviewing, (*int)(nil), (*string)(nil)).
		Return(nil)

	iv, conflict, err := f.svc.Begin(context.Background(), interview.BeginRequest{UserID: "u1", InterviewerID: "staff-1"})
	require.NoError(t, err)
	require.Nil(t, conflict)
	require.Equal(t, interview.StatusInProgress, iv.Status)
	require.Equal(t, interview.ResultPending, iv.Result)
	require.Equal(t, "pa1", iv.ParticipantID)
	f.participants.AssertExpectations(t)
}

func TestService_BeginConflict(t *testing.T) {
	f := newFixture().withActiveProcess()
	f.participants.On("GetByUser", mock.Anything, "p1", "u1").
		Return(&process.Participant{ID: "pa1", UserID: "u1", Username: "alice"}, nil)
	existing := &interview.Interview{ID: "iv0", ParticipantID: "pa1", Status: interview.StatusInProgress}
	f.interviews.On("Create", mock.Anything, mock.Anything).Return(existing, repository.ErrDuplicate)

	iv, conflict, err := f.svc.Begin(context.Background(), interview.BeginRequest{UserID: "u1", InterviewerID: "staff-1"})
	require.NoError(t, err)
	require.Nil(t, iv)
	require.NotNil(t, conflict)
	require.Equal(t, "iv0", conflict.Existing.ID)
}

func TestService_BeginRequiresParticipant(t *testing.T) {
	f := newFixture().withActiveProcess()
	f.participants.On("GetByUser", mock.Anything, "p1", "u1").Return(nil, repository.ErrNotFound)

	_, _, err := f.svc.Begin(context.Background(), interview.BeginRequest{UserID: "u1", InterviewerID: "staff-1"})
	require.ErrorIs(t, err, process.ErrParticipantNotFound)
}

func TestService_FinishValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Finish(context.Background(), interview.FinishRequest{UserID: "u1", Result: "maybe", Score: 5})
	require.ErrorIs(t, err, interview.ErrInvalidResult)

	_, err = f.svc.Finish(context.Background(), interview.FinishRequest{UserID: "u1", Result: "approved", Score: 11})
	require.ErrorIs(t, err, interview.ErrInvalidScore)

	_, err = f.svc.Finish(context.Background(), interview.FinishRequest{UserID: "u1", Result: "approved", Score: -1})
	require.ErrorIs(t, err, interview.ErrInvalidScore)
}

func TestService_FinishApproved(t *testing.T) {
	f := newFixture().withActiveProcess()
	startedAt := time.Now().Add(-45 * time.Minute)
	f.interviews.On("GetInProgressByUser", mock.Anything, "p1", "u1").
		Return(&interview.Interview{ID: "iv1", ParticipantID: "pa1", UserID: "u1", Status: interview.StatusInProgress, StartedAt: startedAt}, nil)
	f.interviews.On("Finish", mock.Anything, "iv1", mock.MatchedBy(func(upd interview.FinishUpdate) bool {
		return upd.Result == interview.ResultApproved &&
			upd.Score == 8 &&
			upd.ParticipantStatus == process.ParticipantApproved &&
			upd.DurationMinutes == 45
	})).Return(nil)

	// Result is case-insensitive.
	iv, err := f.svc.Finish(context.Background(), interview.FinishRequest{UserID: "u1", Result: "Approved", Score: 8, Comments: "good"})
	require.NoError(t, err)
	require.Equal(t, interview.StatusCompleted, iv.Status)
	require.Equal(t, interview.ResultApproved, iv.Result)
	require.Equal(t, 8, *iv.Score)
	require.Equal(t, 45, *iv.DurationMinutes)
	f.interviews.AssertExpectations(t)
}

func TestService_FinishRejectedMapsParticipant(t *testing.T) {
	f := newFixture().withActiveProcess()
	f.interviews.On("GetInProgressByUser", mock.Anything, "p1", "u1").
		Return(&interview.Interview{ID: "iv1", ParticipantID: "pa1", UserID: "u1", Status: interview.StatusInProgress, StartedAt: time.Now()}, nil)
	f.interviews.On("Finish", mock.Anything, "iv1", mock.MatchedBy(func(upd interview.FinishUpdate) bool {
		return upd.ParticipantStatus == process.ParticipantRejected
	})).Return(nil)

	_, err := f.svc.Finish(context.Background(), interview.FinishRequest{UserID: "u1", Result: "rejected", Score: 3})
	require.NoError(t, err)
}

func TestService_FinishNoActiveInterview(t *testing.T) {
	f := newFixture().withActiveProcess()
	f.interviews.On("GetInProgressByUser", mock.Anything, "p1", "u1").Return(nil, repository.ErrNotFound)

	_, err := f.svc.Finish(context.Background(), interview.FinishRequest{UserID: "u1", Result: "approved", Score: 8})
	require.ErrorIs(t, err, interview.ErrNoActiveInterview)
}

func TestService_CancelReturnsParticipantToPending(t *testing.T) {
	f := newFixture().withActiveProcess()
	f.interviews.On("GetInProgressByUser", mock.Anything, "p1", "u1").
		Return(&interview.Interview{ID: "iv1", ParticipantID: "pa1", UserID: "u1", Status: interview.StatusInProgress}, nil)
	f.interviews.On("Cancel", mock.Anything, "iv1", mock.Anything).Return(nil)
	f.participants.On("UpdateStatus", mock.Anything, "pa1", process.ParticipantPending, (*int)(nil), (*string)(nil)).
		Return(nil)

	iv, err := f.svc.Cancel(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, interview.StatusCancelled, iv.Status)
	f.participants.AssertExpectations(t)
}
