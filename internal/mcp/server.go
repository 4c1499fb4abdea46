// Package mcp exposes the workflow services as MCP tools so staff
// frontends and automations drive the engine over one protocol.
package mcp

import (
	"context"
	"log/slog"

	"github.com/hylexhq/guildflow/internal/domain/interview"
	"github.com/hylexhq/guildflow/internal/domain/invite"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/domain/ticket"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// InviteService defines invite operations needed by MCP.
type InviteService interface {
	Send(ctx context.Context, req invite.SendRequest) (*invite.SendResult, *invite.ConflictInfo, error)
	Respond(ctx context.Context, req invite.RespondRequest) (*invite.RespondResult, error)
	ConfirmEntry(ctx context.Context, userID string) (*invite.Invite, error)
	ConfirmMember(ctx context.Context, userID string) (*invite.Invite, error)
	Cancel(ctx context.Context, inviteID, cancelledBy string) (*invite.Invite, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]invite.Invite, error)
	Recent(ctx context.Context, limit int) ([]invite.Invite, error)
	Stats(ctx context.Context, days int) (*invite.Stats, error)
}

// ProcessService defines process operations needed by MCP.
type ProcessService interface {
	Start(ctx context.Context, req process.StartRequest) (*process.Process, *process.ConflictInfo, error)
	End(ctx context.Context, endedBy string) (*process.Process, error)
	Active(ctx context.Context) (*process.Process, error)
	Enroll(ctx context.Context, req process.EnrollRequest) (*process.Participant, error)
	Participants(ctx context.Context, processID string) ([]process.Participant, error)
	Stats(ctx context.Context, processID string) (*process.Stats, error)
}

// InterviewService defines interview operations needed by MCP.
type InterviewService interface {
	Begin(ctx context.Context, req interview.BeginRequest) (*interview.Interview, *interview.ConflictInfo, error)
	Finish(ctx context.Context, req interview.FinishRequest) (*interview.Interview, error)
	Cancel(ctx context.Context, userID string) (*interview.Interview, error)
	ByUser(ctx context.Context, userID string) (*interview.Interview, error)
	Stats(ctx context.Context, processID string) (*interview.Stats, error)
}

// TicketService defines ticket operations needed by MCP.
type TicketService interface {
	Open(ctx context.Context, req ticket.OpenRequest) (*ticket.Ticket, *ticket.ConflictInfo, error)
	Relay(ctx context.Context, req ticket.RelayRequest) (*ticket.Message, error)
	RequestClose(ctx context.Context, ticketID, requestedBy string) error
	CancelClose(ctx context.Context, ticketID string) (bool, error)
	Close(ctx context.Context, ticketID, closedBy string) (*ticket.Summary, error)
	History(ctx context.Context, ticketID string) ([]ticket.Message, error)
	Stats(ctx context.Context) (*ticket.Stats, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Invites    InviteService
	Processes  ProcessService
	Interviews InterviewService
	Tickets    TicketService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and
// middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "guildflow",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

const serverInstructions = `Guildflow manages a community's recruitment and
support workflows: invites, recruitment processes, interviews, and support
tickets. Mutating tools enforce the workflow invariants; a conflicting call
returns the blocking state instead of overwriting it.`
