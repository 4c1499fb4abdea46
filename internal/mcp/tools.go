package mcp

import (
	"context"

	"github.com/hylexhq/guildflow/internal/domain/interview"
	"github.com/hylexhq/guildflow/internal/domain/invite"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/domain/ticket"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	registerInviteTools(server, svc.Invites)
	registerProcessTools(server, svc.Processes)
	registerInterviewTools(server, svc.Interviews)
	registerTicketTools(server, svc.Tickets)
}

// Invite tools

type SendInviteInput struct {
	UserID   string `json:"user_id" jsonschema:"candidate user ID"`
	Username string `json:"username" jsonschema:"candidate username"`
	SentBy   string `json:"sent_by" jsonschema:"staff member sending the invite"`
	Message  string `json:"message" jsonschema:"invitation text delivered to the candidate"`
}

type SendInviteResult struct {
	Invite        *invite.Invite       `json:"invite,omitempty"`
	Conflict      *invite.ConflictInfo `json:"conflict,omitempty"`
	Degraded      bool                 `json:"degraded,omitempty"`
	DeliveryError string               `json:"delivery_error,omitempty"`
}

type RespondInviteInput struct {
	UserID    string `json:"user_id" jsonschema:"candidate user ID"`
	MessageID string `json:"message_id" jsonschema:"message the candidate responded to"`
	Accept    bool   `json:"accept" jsonschema:"true to accept, false to decline"`
}

type RespondInviteResult struct {
	Invite      *invite.Invite       `json:"invite"`
	InviteURL   *string              `json:"invite_url,omitempty"`
	Participant *process.Participant `json:"participant,omitempty"`
	Degraded    bool                 `json:"degraded,omitempty"`
}

type InviteStatusInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"filter to one candidate"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum invites returned"`
}

type InviteStatusResult struct {
	Invites []invite.Invite `json:"invites"`
}

type CancelInviteInput struct {
	InviteID    string `json:"invite_id" jsonschema:"invite to withdraw"`
	CancelledBy string `json:"cancelled_by" jsonschema:"staff member withdrawing it"`
}

type InviteResult struct {
	Invite *invite.Invite `json:"invite"`
}

type ConfirmInput struct {
	UserID string `json:"user_id" jsonschema:"candidate user ID"`
}

type RecruitmentStatsInput struct {
	Days int `json:"days,omitempty" jsonschema:"trailing window in days, default 30"`
}

type RecruitmentStatsResult struct {
	Stats *invite.Stats `json:"stats"`
}

func registerInviteTools(server *sdkmcp.Server, svc InviteService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "send_invite",
		Description: "Send a recruitment invite to a candidate. Requires an active process; at most one pending invite per candidate.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input SendInviteInput) (*sdkmcp.CallToolResult, SendInviteResult, error) {
		result, conflict, err := svc.Send(ctx, invite.SendRequest{
			UserID:   input.UserID,
			Username: input.Username,
			SentBy:   input.SentBy,
			Message:  input.Message,
		})
		if err != nil {
			return nil, SendInviteResult{}, asToolError(err)
		}
		if conflict != nil {
			return nil, SendInviteResult{Conflict: conflict}, nil
		}
		return nil, SendInviteResult{
			Invite:        result.Invite,
			Degraded:      result.Degraded,
			DeliveryError: result.DeliveryError,
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "respond_invite",
		Description: "Record a candidate's accept or decline. Accepting issues a single-use join link and enrolls the candidate.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RespondInviteInput) (*sdkmcp.CallToolResult, RespondInviteResult, error) {
		result, err := svc.Respond(ctx, invite.RespondRequest{
			UserID:    input.UserID,
			MessageID: input.MessageID,
			Accept:    input.Accept,
		})
		if err != nil {
			return nil, RespondInviteResult{}, asToolError(err)
		}
		return nil, RespondInviteResult{
			Invite:      result.Invite,
			InviteURL:   result.InviteURL,
			Participant: result.Participant,
			Degraded:    result.Degraded,
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invite_status",
		Description: "List recent invites, optionally for one candidate.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input InviteStatusInput) (*sdkmcp.CallToolResult, InviteStatusResult, error) {
		var (
			invites []invite.Invite
			err     error
		)
		if input.UserID != "" {
			invites, err = svc.RecentByUser(ctx, input.UserID, input.Limit)
		} else {
			invites, err = svc.Recent(ctx, input.Limit)
		}
		if err != nil {
			return nil, InviteStatusResult{}, asToolError(err)
		}
		return nil, InviteStatusResult{Invites: invites}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "cancel_invite",
		Description: "Withdraw a pending invite.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input CancelInviteInput) (*sdkmcp.CallToolResult, InviteResult, error) {
		inv, err := svc.Cancel(ctx, input.InviteID, input.CancelledBy)
		if err != nil {
			return nil, InviteResult{}, asToolError(err)
		}
		return nil, InviteResult{Invite: inv}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "confirm_entry",
		Description: "Mark an accepted invite as entered after the candidate joins the community.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ConfirmInput) (*sdkmcp.CallToolResult, InviteResult, error) {
		inv, err := svc.ConfirmEntry(ctx, input.UserID)
		if err != nil {
			return nil, InviteResult{}, asToolError(err)
		}
		return nil, InviteResult{Invite: inv}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "confirm_member",
		Description: "Mark an entered invite as a confirmed member after staff review.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ConfirmInput) (*sdkmcp.CallToolResult, InviteResult, error) {
		inv, err := svc.ConfirmMember(ctx, input.UserID)
		if err != nil {
			return nil, InviteResult{}, asToolError(err)
		}
		return nil, InviteResult{Invite: inv}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recruitment_stats",
		Description: "Invite counts by status over a trailing window.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RecruitmentStatsInput) (*sdkmcp.CallToolResult, RecruitmentStatsResult, error) {
		stats, err := svc.Stats(ctx, input.Days)
		if err != nil {
			return nil, RecruitmentStatsResult{}, asToolError(err)
		}
		return nil, RecruitmentStatsResult{Stats: stats}, nil
	})
}

// Process tools

type StartProcessInput struct {
	Name        string `json:"name" jsonschema:"process name"`
	Description string `json:"description,omitempty" jsonschema:"optional description"`
	StartedBy   string `json:"started_by" jsonschema:"staff member starting the process"`
}

type StartProcessResult struct {
	Process  *process.Process      `json:"process,omitempty"`
	Conflict *process.ConflictInfo `json:"conflict,omitempty"`
}

type EndProcessInput struct {
	EndedBy string `json:"ended_by" jsonschema:"staff member ending the process"`
}

type ProcessResult struct {
	Process *process.Process `json:"process"`
}

type EnrollParticipantInput struct {
	UserID   string `json:"user_id" jsonschema:"user to enroll"`
	Username string `json:"username,omitempty" jsonschema:"username for display"`
	Phase    string `json:"phase,omitempty" jsonschema:"optional recruitment phase"`
}

type ParticipantResult struct {
	Participant *process.Participant `json:"participant"`
}

type ProcessSummaryInput struct {
	ProcessID string `json:"process_id,omitempty" jsonschema:"process to summarize, defaults to the active one"`
}

type ProcessSummaryResult struct {
	Process      *process.Process      `json:"process"`
	Participants []process.Participant `json:"participants"`
	Stats        *process.Stats        `json:"stats"`
}

func registerProcessTools(server *sdkmcp.Server, svc ProcessService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_process",
		Description: "Start a recruitment process. At most one process is active at a time.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input StartProcessInput) (*sdkmcp.CallToolResult, StartProcessResult, error) {
		proc, conflict, err := svc.Start(ctx, process.StartRequest{
			Name:        input.Name,
			Description: input.Description,
			StartedBy:   input.StartedBy,
		})
		if err != nil {
			return nil, StartProcessResult{}, asToolError(err)
		}
		if conflict != nil {
			return nil, StartProcessResult{Conflict: conflict}, nil
		}
		return nil, StartProcessResult{Process: proc}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "end_process",
		Description: "End the active recruitment process. A completed process is never reopened.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input EndProcessInput) (*sdkmcp.CallToolResult, ProcessResult, error) {
		proc, err := svc.End(ctx, input.EndedBy)
		if err != nil {
			return nil, ProcessResult{}, asToolError(err)
		}
		return nil, ProcessResult{Process: proc}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "enroll_participant",
		Description: "Enroll a user in the active process. Enrolling an existing participant returns the existing row.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input EnrollParticipantInput) (*sdkmcp.CallToolResult, ParticipantResult, error) {
		p, err := svc.Enroll(ctx, process.EnrollRequest{
			UserID:   input.UserID,
			Username: input.Username,
			Phase:    input.Phase,
		})
		if err != nil {
			return nil, ParticipantResult{}, asToolError(err)
		}
		return nil, ParticipantResult{Participant: p}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "process_summary",
		Description: "Process details with participants and aggregate stats.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ProcessSummaryInput) (*sdkmcp.CallToolResult, ProcessSummaryResult, error) {
		processID := input.ProcessID
		var proc *process.Process
		if processID == "" {
			active, err := svc.Active(ctx)
			if err != nil {
				return nil, ProcessSummaryResult{}, asToolError(err)
			}
			proc = active
			processID = active.ID
		}
		participants, err := svc.Participants(ctx, processID)
		if err != nil {
			return nil, ProcessSummaryResult{}, asToolError(err)
		}
		stats, err := svc.Stats(ctx, processID)
		if err != nil {
			return nil, ProcessSummaryResult{}, asToolError(err)
		}
		return nil, ProcessSummaryResult{Process: proc, Participants: participants, Stats: stats}, nil
	})
}

// Interview tools

type BeginInterviewInput struct {
	UserID          string `json:"user_id" jsonschema:"participant user ID"`
	InterviewerID   string `json:"interviewer_id" jsonschema:"staff member conducting the interview"`
	InterviewerName string `json:"interviewer_name,omitempty" jsonschema:"interviewer display name"`
}

type BeginInterviewResult struct {
	Interview *interview.Interview    `json:"interview,omitempty"`
	Conflict  *interview.ConflictInfo `json:"conflict,omitempty"`
}

type FinishInterviewInput struct {
	UserID   string `json:"user_id" jsonschema:"participant user ID"`
	Result   string `json:"result" jsonschema:"approved or rejected"`
	Score    int    `json:"score" jsonschema:"integer score from 0 to 10"`
	Comments string `json:"comments,omitempty" jsonschema:"interviewer comments"`
	Feedback string `json:"feedback,omitempty" jsonschema:"feedback for the candidate"`
}

type InterviewResult struct {
	Interview *interview.Interview `json:"interview"`
}

type InterviewUserInput struct {
	UserID string `json:"user_id" jsonschema:"participant user ID"`
}

func registerInterviewTools(server *sdkmcp.Server, svc InterviewService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "begin_interview",
		Description: "Start an interview with a participant of the active process. One non-cancelled interview per participant.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input BeginInterviewInput) (*sdkmcp.CallToolResult, BeginInterviewResult, error) {
		iv, conflict, err := svc.Begin(ctx, interview.BeginRequest{
			UserID:          input.UserID,
			InterviewerID:   input.InterviewerID,
			InterviewerName: input.InterviewerName,
		})
		if err != nil {
			return nil, BeginInterviewResult{}, asToolError(err)
		}
		if conflict != nil {
			return nil, BeginInterviewResult{Conflict: conflict}, nil
		}
		return nil, BeginInterviewResult{Interview: iv}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "finish_interview",
		Description: "Finish a participant's interview with a verdict and score. Updates the participant atomically.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input FinishInterviewInput) (*sdkmcp.CallToolResult, InterviewResult, error) {
		iv, err := svc.Finish(ctx, interview.FinishRequest{
			UserID:   input.UserID,
			Result:   input.Result,
			Score:    input.Score,
			Comments: input.Comments,
			Feedback: input.Feedback,
		})
		if err != nil {
			return nil, InterviewResult{}, asToolError(err)
		}
		return nil, InterviewResult{Interview: iv}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "cancel_interview",
		Description: "Abandon a participant's in-progress interview and return them to pending.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input InterviewUserInput) (*sdkmcp.CallToolResult, InterviewResult, error) {
		iv, err := svc.Cancel(ctx, input.UserID)
		if err != nil {
			return nil, InterviewResult{}, asToolError(err)
		}
		return nil, InterviewResult{Interview: iv}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "interview_status",
		Description: "Fetch a participant's in-progress interview.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input InterviewUserInput) (*sdkmcp.CallToolResult, InterviewResult, error) {
		iv, err := svc.ByUser(ctx, input.UserID)
		if err != nil {
			return nil, InterviewResult{}, asToolError(err)
		}
		return nil, InterviewResult{Interview: iv}, nil
	})
}

// Ticket tools

type OpenTicketInput struct {
	UserID          string `json:"user_id" jsonschema:"requester user ID"`
	Username        string `json:"username,omitempty" jsonschema:"requester username"`
	DisplayName     string `json:"display_name,omitempty" jsonschema:"requester display name"`
	Reason          string `json:"reason" jsonschema:"why the ticket was opened"`
	ParentChannelID string `json:"parent_channel_id,omitempty" jsonschema:"channel the support thread is created under"`
}

type OpenTicketResult struct {
	Ticket   *ticket.Ticket       `json:"ticket,omitempty"`
	Conflict *ticket.ConflictInfo `json:"conflict,omitempty"`
}

type RelayTicketMessageInput struct {
	ThreadID   string `json:"thread_id,omitempty" jsonschema:"thread of the ticket, for staff messages"`
	UserID     string `json:"user_id,omitempty" jsonschema:"requester user ID, for user messages"`
	AuthorID   string `json:"author_id" jsonschema:"message author"`
	AuthorName string `json:"author_name,omitempty" jsonschema:"author display name"`
	Content    string `json:"content" jsonschema:"message text"`
	Kind       string `json:"kind" jsonschema:"user or staff"`
}

type RelayTicketMessageResult struct {
	Message *ticket.Message `json:"message"`
}

type TicketIDInput struct {
	TicketID string `json:"ticket_id" jsonschema:"ticket identifier"`
}

type RequestTicketCloseInput struct {
	TicketID    string `json:"ticket_id" jsonschema:"ticket identifier"`
	RequestedBy string `json:"requested_by" jsonschema:"staff member requesting the close"`
}

type CloseTicketInput struct {
	TicketID string `json:"ticket_id" jsonschema:"ticket identifier"`
	ClosedBy string `json:"closed_by" jsonschema:"staff member closing the ticket"`
}

type CloseTicketResult struct {
	Summary *ticket.Summary `json:"summary"`
}

type CancelTicketCloseResult struct {
	Cancelled bool `json:"cancelled"`
}

type TicketHistoryResult struct {
	Messages []ticket.Message `json:"messages"`
}

type TicketStatsResult struct {
	Stats *ticket.Stats `json:"stats"`
}

type ScheduledResult struct {
	Scheduled bool `json:"scheduled"`
}

func registerTicketTools(server *sdkmcp.Server, svc TicketService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_ticket",
		Description: "Open a support ticket with a dedicated thread. At most one open ticket per user.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input OpenTicketInput) (*sdkmcp.CallToolResult, OpenTicketResult, error) {
		t, conflict, err := svc.Open(ctx, ticket.OpenRequest{
			UserID:          input.UserID,
			Username:        input.Username,
			DisplayName:     input.DisplayName,
			Reason:          input.Reason,
			ParentChannelID: input.ParentChannelID,
		})
		if err != nil {
			return nil, OpenTicketResult{}, asToolError(err)
		}
		if conflict != nil {
			return nil, OpenTicketResult{Conflict: conflict}, nil
		}
		return nil, OpenTicketResult{Ticket: t}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "relay_ticket_message",
		Description: "Append a message to a ticket and forward it to the other side of the conversation.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RelayTicketMessageInput) (*sdkmcp.CallToolResult, RelayTicketMessageResult, error) {
		m, err := svc.Relay(ctx, ticket.RelayRequest{
			ThreadID:   input.ThreadID,
			UserID:     input.UserID,
			AuthorID:   input.AuthorID,
			AuthorName: input.AuthorName,
			Content:    input.Content,
			Kind:       ticket.MessageKind(input.Kind),
		})
		if err != nil {
			return nil, RelayTicketMessageResult{}, asToolError(err)
		}
		return nil, RelayTicketMessageResult{Message: m}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_ticket",
		Description: "Request a ticket close. The close fires after a short countdown and can be cancelled until then.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RequestTicketCloseInput) (*sdkmcp.CallToolResult, ScheduledResult, error) {
		if err := svc.RequestClose(ctx, input.TicketID, input.RequestedBy); err != nil {
			return nil, ScheduledResult{}, asToolError(err)
		}
		return nil, ScheduledResult{Scheduled: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "cancel_ticket_close",
		Description: "Cancel a pending ticket close countdown.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input TicketIDInput) (*sdkmcp.CallToolResult, CancelTicketCloseResult, error) {
		cancelled, err := svc.CancelClose(ctx, input.TicketID)
		if err != nil {
			return nil, CancelTicketCloseResult{}, asToolError(err)
		}
		return nil, CancelTicketCloseResult{Cancelled: cancelled}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_ticket_now",
		Description: "Close a ticket immediately, archiving its transcript summary.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input CloseTicketInput) (*sdkmcp.CallToolResult, CloseTicketResult, error) {
		summary, err := svc.Close(ctx, input.TicketID, input.ClosedBy)
		if err != nil {
			return nil, CloseTicketResult{}, asToolError(err)
		}
		return nil, CloseTicketResult{Summary: summary}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ticket_history",
		Description: "Fetch a ticket's transcript.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input TicketIDInput) (*sdkmcp.CallToolResult, TicketHistoryResult, error) {
		messages, err := svc.History(ctx, input.TicketID)
		if err != nil {
			return nil, TicketHistoryResult{}, asToolError(err)
		}
		return nil, TicketHistoryResult{Messages: messages}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ticket_stats",
		Description: "Open and closed ticket counts with average resolution time.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, TicketStatsResult, error) {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return nil, TicketStatsResult{}, asToolError(err)
		}
		return nil, TicketStatsResult{Stats: stats}, nil
	})
}
