package bot

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func lastEdit(t *testing.T, messenger *recorderMessenger) *bot.EditMessageTextParams {
	t.Helper()
	if len(messenger.edited) == 0 {
		t.Fatal("no edit recorded")
	}
	return messenger.edited[len(messenger.edited)-1]
}

func TestHotLeadsViewTruncatesAtLimit(t *testing.T) {
	repo := &fakeLeadRepo{}
	now := time.Now()
	for i := 0; i < domain.HotLeadsLimit+3; i++ {
		lead := storedLead(strconv.Itoa(100+i), domain.SegmentHot)
		lead.Name = "Hot " + strconv.Itoa(i)
		lead.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		repo.leads = append(repo.leads, lead)
	}
	app, messenger, _ := newTestApp(t, repo)

	result := app.Router.Dispatch(context.Background(), adminRequest("admin_leads_hot"))
	if result != DispatchHandled {
		t.Fatalf("result = %v", result)
	}

	edit := lastEdit(t, messenger)
	if !strings.Contains(edit.Text, "Hot leads") {
		t.Errorf("missing title: %q", edit.Text)
	}
	if !strings.Contains(edit.Text, "Hot 0") || strings.Contains(edit.Text, "Hot "+strconv.Itoa(domain.HotLeadsLimit)) {
		t.Errorf("truncation window wrong: %q", edit.Text)
	}

	keyboard := edit.ReplyMarkup.(*models.InlineKeyboardMarkup)
	// One button per shown lead plus the back row
	if len(keyboard.InlineKeyboard) != domain.HotLeadsLimit+1 {
		t.Errorf("keyboard rows = %d, want %d", len(keyboard.InlineKeyboard), domain.HotLeadsLimit+1)
	}
}

func TestHotLeadsViewEmptyStore(t *testing.T) {
	app, messenger, _ := newTestApp(t, &fakeLeadRepo{})

	app.Router.Dispatch(context.Background(), adminRequest("admin_leads_hot"))

	if !strings.Contains(lastEdit(t, messenger).Text, "No leads") {
		t.Errorf("expected the empty view")
	}
}

func TestTodayViewGroupsWithOverflow(t *testing.T) {
	repo := &fakeLeadRepo{}
	now := time.Now().UTC()
	for i := 0; i < domain.TodayLeadsPerGroup+2; i++ {
		lead := storedLead(strconv.Itoa(200+i), domain.SegmentWarm)
		lead.Name = "Today " + strconv.Itoa(i)
		lead.CreatedAt = now
		repo.leads = append(repo.leads, lead)
	}
	app, messenger, _ := newTestApp(t, repo)

	app.Router.Dispatch(context.Background(), adminRequest("admin_leads_today"))

	edit := lastEdit(t, messenger)
	if !strings.Contains(edit.Text, "Warm — 5") {
		t.Errorf("group header missing total: %q", edit.Text)
	}
	if !strings.Contains(edit.Text, "and 2 more") {
		t.Errorf("overflow line missing: %q", edit.Text)
	}

	keyboard := edit.ReplyMarkup.(*models.InlineKeyboardMarkup)
	if len(keyboard.InlineKeyboard) != domain.TodayLeadsPerGroup+1 {
		t.Errorf("keyboard rows = %d, want %d", len(keyboard.InlineKeyboard), domain.TodayLeadsPerGroup+1)
	}
}

func TestUnprocessedViewSkipsProcessed(t *testing.T) {
	repo := &fakeLeadRepo{}
	open := storedLead("1", domain.SegmentCold)
	open.Name = "Still Open"
	done := storedLead("2", domain.SegmentCold)
	done.Name = "Already Done"
	done.Processed = true
	repo.leads = []*domain.Lead{open, done}
	app, messenger, _ := newTestApp(t, repo)

	app.Router.Dispatch(context.Background(), adminRequest("admin_leads_unprocessed"))

	edit := lastEdit(t, messenger)
	if !strings.Contains(edit.Text, "Still Open") || strings.Contains(edit.Text, "Already Done") {
		t.Errorf("unexpected unprocessed list: %q", edit.Text)
	}
}

func TestStatsSegmentsView(t *testing.T) {
	repo := &fakeLeadRepo{leads: []*domain.Lead{
		storedLead("1", domain.SegmentHot),
		storedLead("2", domain.SegmentHot),
		storedLead("3", domain.SegmentNurture),
	}}
	app, messenger, _ := newTestApp(t, repo)

	app.Router.Dispatch(context.Background(), adminRequest("admin_stats_segments"))

	edit := lastEdit(t, messenger)
	if !strings.Contains(edit.Text, "Hot: 2") || !strings.Contains(edit.Text, "Nurture: 1") {
		t.Errorf("unexpected breakdown: %q", edit.Text)
	}
}

func TestStatsAverageFormatting(t *testing.T) {
	repo := &fakeLeadRepo{}
	for i, total := range []int{80, 65} {
		total := total
		lead := storedLead(strconv.Itoa(i+1), domain.SegmentHot)
		lead.Analysis.Scores.Total = &total
		repo.leads = append(repo.leads, lead)
	}
	repo.leads = append(repo.leads, storedLead("3", domain.SegmentCold)) // unrated
	app, messenger, _ := newTestApp(t, repo)

	app.Router.Dispatch(context.Background(), adminRequest("admin_stats_average"))

	edit := lastEdit(t, messenger)
	if !strings.Contains(edit.Text, "72.5") || !strings.Contains(edit.Text, "2 rated leads") {
		t.Errorf("unexpected average text: %q", edit.Text)
	}
}

func TestStatsAverageNoData(t *testing.T) {
	// Leads exist but none carries a total score
	repo := &fakeLeadRepo{leads: []*domain.Lead{storedLead("1", domain.SegmentHot)}}
	app, messenger, _ := newTestApp(t, repo)

	app.Router.Dispatch(context.Background(), adminRequest("admin_stats_average"))

	if !strings.Contains(lastEdit(t, messenger).Text, "Not enough data") {
		t.Errorf("expected the no-data view")
	}
}

func TestSystemDiagnosticsCounts(t *testing.T) {
	repo := &fakeLeadRepo{}
	done := storedLead("1", domain.SegmentWarm)
	done.Processed = true
	repo.leads = []*domain.Lead{done, storedLead("2", domain.SegmentHot)}
	app, messenger, _ := newTestApp(t, repo)

	app.Router.Dispatch(context.Background(), adminRequest("admin_system"))

	edit := lastEdit(t, messenger)
	if !strings.Contains(edit.Text, "Leads stored: 2") || !strings.Contains(edit.Text, "Unprocessed: 1") {
		t.Errorf("unexpected diagnostics: %q", edit.Text)
	}

	keyboard := edit.ReplyMarkup.(*models.InlineKeyboardMarkup)
	if keyboard.InlineKeyboard[0][0].CallbackData != "admin_system_usage" {
		t.Errorf("diagnostics keyboard missing the usage row: %+v", keyboard)
	}
}

func TestSystemUsageView(t *testing.T) {
	app, messenger, _ := newTestApp(t, &fakeLeadRepo{})
	ctx := context.Background()

	// Generate some traffic, then ask for the report
	app.Router.Dispatch(ctx, adminRequest("admin_main"))
	app.Router.Dispatch(ctx, adminRequest("admin_main"))
	app.Router.Dispatch(ctx, adminRequest("admin_system_usage"))

	edit := lastEdit(t, messenger)
	if !strings.Contains(edit.Text, "admin_main — 2 calls") {
		t.Errorf("unexpected usage report: %q", edit.Text)
	}
}
