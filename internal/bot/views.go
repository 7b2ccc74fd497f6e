package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Static callback identifiers, grouped by owning module
const (
	cbMain    = "admin_main"
	cbHelp    = "admin_help"
	cbRefresh = "admin_refresh"

	cbStats         = "admin_stats"
	cbStatsSegments = "admin_stats_segments"
	cbStatsIssues   = "admin_stats_issues"
	cbStatsAverage  = "admin_stats_average"

	cbLeads            = "admin_leads"
	cbLeadsHot         = "admin_leads_hot"
	cbLeadsToday       = "admin_leads_today"
	cbLeadsUnprocessed = "admin_leads_unprocessed"

	cbSystem      = "admin_system"
	cbSystemUsage = "admin_system_usage"
)

// Parameterized actions, dispatched through the fallback table as
// admin_<action>_<leadID>
const (
	callbackPrefix = "admin"

	actionViewLead      = "view_lead"
	actionContactLead   = "contact_lead"
	actionMarkProcessed = "mark_processed"
	actionMarkUrgent    = "mark_urgent"
	actionChangeSegment = "change_segment"
	actionBackToLead    = "back_to_lead"
	actionSetSegment    = "set_segment" // + "_" + segment code
)

// actionCallback builds a parameterized callback identifier for a lead
func actionCallback(action, leadID string) string {
	return callbackPrefix + callbackDelimiter + action + callbackDelimiter + leadID
}

// views renders display payloads and keyboards. Lead-supplied strings are
// escaped before being embedded into MarkdownV2 payloads; the messaging
// endpoint does no escaping of its own.
type views struct {
	localizer locale.Localizer
	timezone  *time.Location
}

func newViews(localizer locale.Localizer, timezone *time.Location) *views {
	return &views{localizer: localizer, timezone: timezone}
}

// segmentLabel translates a segment code to its display string
func (v *views) segmentLabel(s domain.Segment) string {
	switch s {
	case domain.SegmentHot:
		return v.localizer.MustLocalize(locale.SegmentHotLabel)
	case domain.SegmentWarm:
		return v.localizer.MustLocalize(locale.SegmentWarmLabel)
	case domain.SegmentCold:
		return v.localizer.MustLocalize(locale.SegmentColdLabel)
	case domain.SegmentNurture:
		return v.localizer.MustLocalize(locale.SegmentNurtureLabel)
	default:
		return string(s)
	}
}

// leadLine is one plain-text list row for a lead
func (v *views) leadLine(lead *domain.Lead) string {
	line := fmt.Sprintf("%s — %s", lead.Name, lead.CreatedAt.In(v.timezone).Format("02.01 15:04"))
	if lead.Urgent {
		line = "⚡ " + line
	}
	return line
}

// leadButton is one inline button opening a lead's detail view
func (v *views) leadButton(lead *domain.Lead) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         lead.Name,
		CallbackData: actionCallback(actionViewLead, lead.ID),
	}
}

// leadDetail renders the detail view of a lead in MarkdownV2. Every
// lead-supplied value goes through bot.EscapeMarkdown, and so do the
// localized labels, which may carry reserved punctuation themselves.
func (v *views) leadDetail(lead *domain.Lead) string {
	esc := bot.EscapeMarkdown

	var b strings.Builder
	b.WriteString("*" + esc(v.localizer.MustLocalizeWithTemplate(locale.LeadDetailTitle, lead.Name)) + "*\n\n")
	b.WriteString(esc(v.localizer.MustLocalizeWithTemplate(locale.LeadDetailID, lead.ID)) + "\n")
	if lead.Username != "" {
		b.WriteString(esc(v.localizer.MustLocalizeWithTemplate(locale.LeadDetailUsername, lead.Username)) + "\n")
	}
	b.WriteString(esc(v.localizer.MustLocalizeWithTemplate(locale.LeadDetailSegment, v.segmentLabel(lead.Analysis.Segment))) + "\n")
	if lead.Analysis.PrimaryIssue != "" {
		b.WriteString(esc(v.localizer.MustLocalizeWithTemplate(locale.LeadDetailIssue, lead.Analysis.PrimaryIssue)) + "\n")
	}
	if lead.Analysis.Scores.Total != nil {
		b.WriteString(esc(v.localizer.MustLocalizeWithTemplate(locale.LeadDetailScore, strconv.Itoa(*lead.Analysis.Scores.Total))) + "\n")
	} else {
		b.WriteString(esc(v.localizer.MustLocalize(locale.LeadDetailScoreMissing)) + "\n")
	}
	b.WriteString(esc(v.localizer.MustLocalizeWithTemplate(locale.LeadDetailCreated,
		lead.CreatedAt.In(v.timezone).Format("02.01.2006 15:04"))) + "\n")

	if lead.Processed {
		b.WriteString(esc(v.localizer.MustLocalize(locale.LeadDetailStatusProcessed)) + "\n")
	} else {
		b.WriteString(esc(v.localizer.MustLocalize(locale.LeadDetailStatusOpen)) + "\n")
	}
	if lead.Urgent {
		b.WriteString(esc(v.localizer.MustLocalize(locale.LeadDetailUrgentFlag)) + "\n")
	}

	return b.String()
}

// leadKeyboard is the action keyboard attached to a lead detail view
func (v *views) leadKeyboard(lead *domain.Lead) *models.InlineKeyboardMarkup {
	processedKey := locale.ButtonMarkProcessed
	if lead.Processed {
		processedKey = locale.ButtonReopenLead
	}
	urgentKey := locale.ButtonMarkUrgent
	if lead.Urgent {
		urgentKey = locale.ButtonClearUrgent
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: v.localizer.MustLocalize(locale.ButtonContactLead), CallbackData: actionCallback(actionContactLead, lead.ID)},
				{Text: v.localizer.MustLocalize(locale.ButtonChangeSegment), CallbackData: actionCallback(actionChangeSegment, lead.ID)},
			},
			{
				{Text: v.localizer.MustLocalize(processedKey), CallbackData: actionCallback(actionMarkProcessed, lead.ID)},
				{Text: v.localizer.MustLocalize(urgentKey), CallbackData: actionCallback(actionMarkUrgent, lead.ID)},
			},
			{
				{Text: v.localizer.MustLocalize(locale.ButtonBackToLeads), CallbackData: cbLeads},
				{Text: v.localizer.MustLocalize(locale.ButtonBackToMain), CallbackData: cbMain},
			},
		},
	}
}

// segmentKeyboard offers one button per segment plus a way back
func (v *views) segmentKeyboard(leadID string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, seg := range domain.Segments {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         v.segmentLabel(seg),
			CallbackData: actionCallback(actionSetSegment+callbackDelimiter+string(seg), leadID),
		}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{
		Text:         v.localizer.MustLocalize(locale.ButtonBackToLead),
		CallbackData: actionCallback(actionBackToLead, leadID),
	}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// mainKeyboard is the main panel keyboard
func (v *views) mainKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: v.localizer.MustLocalize(locale.ButtonLeads), CallbackData: cbLeads},
				{Text: v.localizer.MustLocalize(locale.ButtonStats), CallbackData: cbStats},
			},
			{
				{Text: v.localizer.MustLocalize(locale.ButtonSystem), CallbackData: cbSystem},
				{Text: v.localizer.MustLocalize(locale.ButtonHelp), CallbackData: cbHelp},
			},
		},
	}
}

// backToMainKeyboard is the navigation affordance every failure view carries
func (v *views) backToMainKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: v.localizer.MustLocalize(locale.ButtonBackToMain), CallbackData: cbMain}},
		},
	}
}

// leadsMenuKeyboard lists the lead views
func (v *views) leadsMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: v.localizer.MustLocalize(locale.ButtonLeadsHot), CallbackData: cbLeadsHot}},
			{{Text: v.localizer.MustLocalize(locale.ButtonLeadsToday), CallbackData: cbLeadsToday}},
			{{Text: v.localizer.MustLocalize(locale.ButtonLeadsUnprocessed), CallbackData: cbLeadsUnprocessed}},
			{{Text: v.localizer.MustLocalize(locale.ButtonBackToMain), CallbackData: cbMain}},
		},
	}
}

// statsMenuKeyboard lists the stat reports
func (v *views) statsMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: v.localizer.MustLocalize(locale.ButtonStatsSegments), CallbackData: cbStatsSegments}},
			{{Text: v.localizer.MustLocalize(locale.ButtonStatsIssues), CallbackData: cbStatsIssues}},
			{{Text: v.localizer.MustLocalize(locale.ButtonStatsAverage), CallbackData: cbStatsAverage}},
			{{Text: v.localizer.MustLocalize(locale.ButtonBackToMain), CallbackData: cbMain}},
		},
	}
}

// leadListKeyboard turns a list of leads into one button per lead plus a back row
func (v *views) leadListKeyboard(leads []*domain.Lead, backKey, backData string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, lead := range leads {
		rows = append(rows, []models.InlineKeyboardButton{v.leadButton(lead)})
	}
	rows = append(rows, []models.InlineKeyboardButton{{
		Text:         v.localizer.MustLocalize(backKey),
		CallbackData: backData,
	}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
