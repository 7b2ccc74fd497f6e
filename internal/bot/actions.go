package bot

import (
	"context"
	"errors"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"

	"github.com/go-telegram/bot/models"
)

var ErrUnknownAction = errors.New("unknown parameterized action")

// actionFunc handles one parameterized action for a target lead
type actionFunc func(ctx context.Context, req *CallbackRequest, targetID string) error

// ActionSet is the fallback dispatch path for prefix_action_targetId
// identifiers that no static route claims. The table is built once at
// startup and looked up by the parsed action key.
type ActionSet struct {
	leadRepo  domain.LeadRepository
	resp      *responder
	views     *views
	localizer locale.Localizer
	logger    domain.Logger
	adminID   int64
	table     map[string]actionFunc
}

// NewActionSet creates a new ActionSet with its dispatch table
func NewActionSet(
	b Messenger,
	views *views,
	leadRepo domain.LeadRepository,
	localizer locale.Localizer,
	logger domain.Logger,
	adminID int64,
) *ActionSet {
	a := &ActionSet{
		leadRepo:  leadRepo,
		resp:      newResponder(b, logger),
		views:     views,
		localizer: localizer,
		logger:    logger,
		adminID:   adminID,
	}

	a.table = map[string]actionFunc{
		actionViewLead:      a.handleViewLead,
		actionBackToLead:    a.handleViewLead,
		actionContactLead:   a.handleContactLead,
		actionMarkProcessed: a.handleMarkProcessed,
		actionMarkUrgent:    a.handleMarkUrgent,
		actionChangeSegment: a.handleChangeSegment,
	}
	for _, segment := range domain.Segments {
		segment := segment
		key := actionSetSegment + callbackDelimiter + string(segment)
		a.table[key] = func(ctx context.Context, req *CallbackRequest, targetID string) error {
			return a.handleSetSegment(ctx, req, targetID, segment)
		}
	}

	return a
}

// Handle dispatches a parsed action. Unknown actions return
// ErrUnknownAction without touching the lead store.
func (a *ActionSet) Handle(ctx context.Context, req *CallbackRequest, parsed ParsedAction) error {
	handler, ok := a.table[parsed.Action]
	if !ok {
		return ErrUnknownAction
	}
	return handler(ctx, req, parsed.TargetID)
}

// getLead loads the target lead, rendering the not-found view on a store
// miss. The returned lead is nil when the request is already answered.
func (a *ActionSet) getLead(ctx context.Context, req *CallbackRequest, targetID string) (*domain.Lead, error) {
	lead, err := a.leadRepo.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		a.logger.Info("lead not found", "lead_id", targetID)
		a.resp.reply(ctx, req, a.localizer.MustLocalize(locale.LeadNotFound), a.views.backToMainKeyboard())
		return nil, nil
	}
	return lead, nil
}

// showDetail renders the lead detail view as the dispatch's one response
func (a *ActionSet) showDetail(ctx context.Context, req *CallbackRequest, lead *domain.Lead) {
	a.resp.replyMode(ctx, req, a.views.leadDetail(lead), a.views.leadKeyboard(lead), models.ParseModeMarkdown)
}

func (a *ActionSet) handleViewLead(ctx context.Context, req *CallbackRequest, targetID string) error {
	lead, err := a.getLead(ctx, req, targetID)
	if err != nil || lead == nil {
		return err
	}
	a.showDetail(ctx, req, lead)
	return nil
}

func (a *ActionSet) handleContactLead(ctx context.Context, req *CallbackRequest, targetID string) error {
	lead, err := a.getLead(ctx, req, targetID)
	if err != nil || lead == nil {
		return err
	}

	var text string
	if lead.Username != "" {
		text = a.localizer.MustLocalizeWithTemplate(locale.ContactLeadUsername, lead.Username)
	} else {
		text = a.localizer.MustLocalizeWithTemplate(locale.ContactLeadNoUsername, lead.ID)
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{{
			Text:         a.localizer.MustLocalize(locale.ButtonBackToLead),
			CallbackData: actionCallback(actionBackToLead, lead.ID),
		}}},
	}
	a.resp.reply(ctx, req, text, keyboard)
	return nil
}

// handleMarkProcessed toggles the processed flag; marking an already
// processed lead reopens it
func (a *ActionSet) handleMarkProcessed(ctx context.Context, req *CallbackRequest, targetID string) error {
	lead, err := a.getLead(ctx, req, targetID)
	if err != nil || lead == nil {
		return err
	}

	if err := a.leadRepo.SetProcessed(ctx, targetID, !lead.Processed, time.Now()); err != nil {
		return err
	}

	return a.refreshDetail(ctx, req, targetID)
}

// handleMarkUrgent toggles the urgent-processing flag
func (a *ActionSet) handleMarkUrgent(ctx context.Context, req *CallbackRequest, targetID string) error {
	lead, err := a.getLead(ctx, req, targetID)
	if err != nil || lead == nil {
		return err
	}

	if err := a.leadRepo.SetUrgent(ctx, targetID, !lead.Urgent, time.Now()); err != nil {
		return err
	}

	return a.refreshDetail(ctx, req, targetID)
}

func (a *ActionSet) handleChangeSegment(ctx context.Context, req *CallbackRequest, targetID string) error {
	lead, err := a.getLead(ctx, req, targetID)
	if err != nil || lead == nil {
		return err
	}

	text := a.localizer.MustLocalizeWithTemplate(locale.ChangeSegmentTitle, lead.Name)
	a.resp.reply(ctx, req, text, a.views.segmentKeyboard(lead.ID))
	return nil
}

// handleSetSegment applies a segment change. The repository updates the
// lead record, the segment index and the audit log in one transaction, so
// the two segment copies never diverge observably. Re-applying the current
// segment succeeds and still appends an audit entry.
func (a *ActionSet) handleSetSegment(ctx context.Context, req *CallbackRequest, targetID string, segment domain.Segment) error {
	err := a.leadRepo.SetSegment(ctx, targetID, segment, a.adminID, time.Now())
	if errors.Is(err, domain.ErrLeadNotFound) {
		a.resp.reply(ctx, req, a.localizer.MustLocalize(locale.LeadNotFound), a.views.backToMainKeyboard())
		return nil
	}
	if err != nil {
		return err
	}

	a.logger.Info("segment changed", "lead_id", targetID, "segment", segment, "admin_id", a.adminID)
	return a.refreshDetail(ctx, req, targetID)
}

// refreshDetail re-reads the lead and renders the detail view
func (a *ActionSet) refreshDetail(ctx context.Context, req *CallbackRequest, targetID string) error {
	lead, err := a.getLead(ctx, req, targetID)
	if err != nil || lead == nil {
		return err
	}
	a.showDetail(ctx, req, lead)
	return nil
}
