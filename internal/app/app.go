// Package app assembles the service graph shared by the HTTP server, the
// MCP server and the sync commands.
package app

import (
	"context"
	"time"

	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/agent"
	"github.com/tbourn/go-congress-backend/internal/config"
	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/http/handlers"
	"github.com/tbourn/go-congress-backend/internal/repo"
	"github.com/tbourn/go-congress-backend/internal/services"
)

// maxReplyRunes caps stored assistant replies.
const maxReplyRunes = 4000

// conversationRepo adapts the repo free functions to
// services.ConversationRepo.
type conversationRepo struct{}

func (conversationRepo) CreateConversation(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Conversation, error) {
	return repo.CreateConversation(ctx, db, userID, title)
}

func (conversationRepo) GetConversation(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Conversation, error) {
	return repo.GetConversation(ctx, db, id, userID)
}

func (conversationRepo) UpdateConversationTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateConversationTitle(ctx, db, id, userID, title)
}

func (conversationRepo) CountConversations(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountConversations(ctx, db, userID)
}

func (conversationRepo) ListConversationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Conversation, error) {
	return repo.ListConversationsPage(ctx, db, userID, offset, limit)
}

// App holds the wired services.
type App struct {
	Config config.Config
	DB     *gorm.DB
	Client *congress.Client

	Members       *services.MemberService
	Bills         *services.BillService
	Votes         *services.VoteService
	Conversations *services.ConversationService
	Assistant     *services.AssistantService
	Feedback      *services.FeedbackService

	MemberSync *services.MemberSyncer
	BillSync   *services.BillSyncer
	VoteSync   *services.VoteSyncer
	Matcher    *services.NameMatcher

	Tools   *agent.Registry
	Planner *agent.Planner
}

// New wires every service against db and an upstream client built from
// cfg.Upstream. Passing a client overrides the default, mainly for tests.
func New(cfg config.Config, db *gorm.DB, client *congress.Client) *App {
	if client == nil {
		client = congress.New(cfg.Upstream)
	}
	now := func() time.Time { return time.Now().UTC() }

	matcher := services.NewNameMatcher(db)

	billSync := services.NewBillSyncer(db, client)
	billSync.Freshness = cfg.Sync.Freshness
	billSync.Concurrency = cfg.Sync.Concurrency

	voteSync := services.NewVoteSyncer(db, client, matcher)
	voteSync.Freshness = cfg.Sync.Freshness
	voteSync.Concurrency = cfg.Sync.Concurrency

	memberSync := services.NewMemberSyncer(db, client)
	memberSync.Concurrency = cfg.Sync.Concurrency

	members := services.NewMemberService(db, client)
	bills := &services.BillService{
		DB:              db,
		Upstream:        client,
		Syncer:          billSync,
		Scopes:          services.NewScopeTracker(),
		CurrentCongress: cfg.Sync.CurrentCongress,
		SyncBatch:       cfg.Sync.BatchSize,
	}
	votes := &services.VoteService{
		DB:              db,
		Syncer:          voteSync,
		Scopes:          services.NewScopeTracker(),
		CurrentCongress: cfg.Sync.CurrentCongress,
		SyncBatch:       cfg.Sync.BatchSize,
		Now:             now,
	}

	tools := agent.NewRegistry(members, bills)
	planner := agent.NewPlanner(tools, cfg.Sync.CurrentCongress)

	conv := services.NewConversationService(db, conversationRepo{})
	conv.TitleLocale = language.English

	return &App{
		Config:        cfg,
		DB:            db,
		Client:        client,
		Members:       members,
		Bills:         bills,
		Votes:         votes,
		Conversations: conv,
		Assistant: &services.AssistantService{
			DB:             db,
			Planner:        planner,
			MaxPromptRunes: cfg.MaxPromptRunes,
			MaxReplyRunes:  maxReplyRunes,
			TitleLocale:    language.English,
			TitleMaxLen:    conv.TitleMaxLen,
		},
		Feedback:   &services.FeedbackService{DB: db},
		MemberSync: memberSync,
		BillSync:   billSync,
		VoteSync:   voteSync,
		Matcher:    matcher,
		Tools:      tools,
		Planner:    planner,
	}
}

// HandlerDeps exposes the services to the HTTP handlers.
func (a *App) HandlerDeps() handlers.Deps {
	return handlers.Deps{
		Members:        a.Members,
		Bills:          a.Bills,
		Votes:          a.Votes,
		Conversations:  a.Conversations,
		Assistant:      a.Assistant,
		Feedback:       a.Feedback,
		IdempotencyTTL: a.Config.IdempotencyTTL,
	}
}

// WithTrigger returns copies of the syncers labelled with trigger, so CLI and
// scheduled runs are told apart in metrics.
func (a *App) WithTrigger(trigger string) (*services.MemberSyncer, *services.BillSyncer, *services.VoteSyncer) {
	m, b, v := *a.MemberSync, *a.BillSync, *a.VoteSync
	m.Trigger, b.Trigger, v.Trigger = trigger, trigger, trigger
	return &m, &b, &v
}
