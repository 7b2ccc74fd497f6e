package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ad/telegram-lead-admin/internal/config"
	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const testAdminID = int64(42)

// recorderMessenger captures every outbound messaging operation
type recorderMessenger struct {
	sent     []*bot.SendMessageParams
	edited   []*bot.EditMessageTextParams
	answered []*bot.AnswerCallbackQueryParams
}

func (m *recorderMessenger) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.sent = append(m.sent, params)
	return &models.Message{}, nil
}

func (m *recorderMessenger) EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	m.edited = append(m.edited, params)
	return &models.Message{}, nil
}

func (m *recorderMessenger) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	m.answered = append(m.answered, params)
	return true, nil
}

// outbound counts display operations, which exclude callback answers
func (m *recorderMessenger) outbound() int {
	return len(m.sent) + len(m.edited)
}

// fakeLeadRepo is an in-memory lead store that counts every access
type fakeLeadRepo struct {
	leads    []*domain.Lead
	reads    int
	mutation int
}

func (f *fakeLeadRepo) find(id string) *domain.Lead {
	for _, lead := range f.leads {
		if lead.ID == id {
			return lead
		}
	}
	return nil
}

func (f *fakeLeadRepo) Get(ctx context.Context, id string) (*domain.Lead, error) {
	f.reads++
	return f.find(id), nil
}

func (f *fakeLeadRepo) Put(ctx context.Context, lead *domain.Lead) error {
	f.mutation++
	f.leads = append(f.leads, lead)
	return nil
}

func (f *fakeLeadRepo) ListAll(ctx context.Context) ([]*domain.Lead, error) {
	f.reads++
	return f.leads, nil
}

func (f *fakeLeadRepo) GetSegment(ctx context.Context, id string) (domain.Segment, bool, error) {
	f.reads++
	if lead := f.find(id); lead != nil {
		return lead.Analysis.Segment, true, nil
	}
	return "", false, nil
}

func (f *fakeLeadRepo) SetSegment(ctx context.Context, id string, segment domain.Segment, adminID int64, now time.Time) error {
	f.mutation++
	lead := f.find(id)
	if lead == nil {
		return domain.ErrLeadNotFound
	}
	lead.Analysis.Segment = segment
	return nil
}

func (f *fakeLeadRepo) SetProcessed(ctx context.Context, id string, processed bool, now time.Time) error {
	f.mutation++
	lead := f.find(id)
	if lead == nil {
		return domain.ErrLeadNotFound
	}
	lead.Processed = processed
	if processed {
		lead.ProcessedAt = &now
	} else {
		lead.ProcessedAt = nil
	}
	return nil
}

func (f *fakeLeadRepo) SetUrgent(ctx context.Context, id string, urgent bool, now time.Time) error {
	f.mutation++
	lead := f.find(id)
	if lead == nil {
		return domain.ErrLeadNotFound
	}
	lead.Urgent = urgent
	if urgent {
		lead.UrgentAt = &now
	} else {
		lead.UrgentAt = nil
	}
	return nil
}

func (f *fakeLeadRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mutation++
	return 0, nil
}

// fakeUsage counts recorded identifiers in memory
type fakeUsage struct {
	counts   map[string]int
	failures map[string]int
}

func newFakeUsage() *fakeUsage {
	return &fakeUsage{counts: map[string]int{}, failures: map[string]int{}}
}

func (f *fakeUsage) Record(ctx context.Context, identifier string, at time.Time) error {
	f.counts[identifier]++
	return nil
}

func (f *fakeUsage) RecordFailure(ctx context.Context, identifier string, at time.Time) error {
	f.failures[identifier]++
	return nil
}

func (f *fakeUsage) Top(ctx context.Context, limit int) ([]*domain.UsageStat, error) {
	var stats []*domain.UsageStat
	for id, count := range f.counts {
		stats = append(stats, &domain.UsageStat{Identifier: id, Count: int64(count)})
		if len(stats) >= limit {
			break
		}
	}
	return stats, nil
}

// testLogger discards all output
type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}

func testLocalizer(t *testing.T) locale.Localizer {
	t.Helper()
	localizer, err := locale.NewLocalizer(locale.NewLocale(locale.En))
	if err != nil {
		t.Fatalf("Failed to create localizer: %v", err)
	}
	return localizer
}

func testConfig() *config.Config {
	return &config.Config{
		AdminUserID:   testAdminID,
		Timezone:      time.UTC,
		RetentionDays: 30,
		SummaryHour:   9,
	}
}

// newTestApp wires a full dispatch pipeline over fakes
func newTestApp(t *testing.T, repo *fakeLeadRepo) (*App, *recorderMessenger, *fakeUsage) {
	t.Helper()

	messenger := &recorderMessenger{}
	usage := newFakeUsage()
	analytics := domain.NewAnalytics(repo, testLogger{})
	app := NewApp(messenger, testConfig(), repo, analytics, usage, testLocalizer(t), testLogger{})
	return app, messenger, usage
}

func adminRequest(data string) *CallbackRequest {
	return &CallbackRequest{
		UserID:     testAdminID,
		ChatID:     100,
		MessageID:  5,
		CallbackID: "cb1",
		Data:       data,
	}
}

func storedLead(id string, segment domain.Segment) *domain.Lead {
	return &domain.Lead{
		ID:       id,
		Name:     "Ann Example",
		Username: "ann",
		Analysis: domain.AnalysisResult{
			Segment:      segment,
			PrimaryIssue: "pricing",
		},
		CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestDispatchRejectsNonAdmin(t *testing.T) {
	repo := &fakeLeadRepo{leads: []*domain.Lead{storedLead("555", domain.SegmentHot)}}
	app, messenger, usage := newTestApp(t, repo)

	req := adminRequest("admin_view_lead_555")
	req.UserID = 7777

	result := app.Router.Dispatch(context.Background(), req)

	if result != DispatchUnauthorized {
		t.Fatalf("result = %v, want DispatchUnauthorized", result)
	}
	if len(messenger.answered) != 1 || !messenger.answered[0].ShowAlert {
		t.Errorf("expected one alert answer, got %+v", messenger.answered)
	}
	if messenger.outbound() != 0 {
		t.Errorf("unauthorized dispatch produced a display operation")
	}
	if repo.reads != 0 || repo.mutation != 0 {
		t.Errorf("unauthorized dispatch touched the store: reads=%d mutations=%d", repo.reads, repo.mutation)
	}
	if len(usage.counts) != 0 {
		t.Errorf("unauthorized dispatch was counted: %v", usage.counts)
	}
}

func TestDispatchNotifiesWhenConfigured(t *testing.T) {
	repo := &fakeLeadRepo{}
	messenger := &recorderMessenger{}
	cfg := testConfig()
	cfg.NotifyUnauthorized = true
	app := NewApp(messenger, cfg, repo, domain.NewAnalytics(repo, testLogger{}), newFakeUsage(), testLocalizer(t), testLogger{})

	req := adminRequest("admin_main")
	req.UserID = 7777
	app.Router.Dispatch(context.Background(), req)

	if len(messenger.sent) != 1 {
		t.Fatalf("expected a rejection notice, got %d sends", len(messenger.sent))
	}
	if !strings.Contains(messenger.sent[0].Text, "not authorized") {
		t.Errorf("unexpected notice text: %q", messenger.sent[0].Text)
	}
}

func TestDispatchMainPanelOnEmptyStore(t *testing.T) {
	repo := &fakeLeadRepo{}
	app, messenger, usage := newTestApp(t, repo)

	result := app.Router.Dispatch(context.Background(), adminRequest("admin_main"))

	if result != DispatchHandled {
		t.Fatalf("result = %v, want DispatchHandled", result)
	}
	if len(messenger.edited) != 1 || len(messenger.sent) != 0 {
		t.Fatalf("expected exactly one edit, got %d edits %d sends", len(messenger.edited), len(messenger.sent))
	}
	if !strings.Contains(messenger.edited[0].Text, "Admin panel") {
		t.Errorf("unexpected panel text: %q", messenger.edited[0].Text)
	}
	if usage.counts["admin_main"] != 1 {
		t.Errorf("dispatch not counted: %v", usage.counts)
	}
	// Navigation never touches the lead store
	if repo.reads != 0 {
		t.Errorf("main panel read the store %d times", repo.reads)
	}
}

func TestDispatchSendsWhenNoMessageToEdit(t *testing.T) {
	app, messenger, _ := newTestApp(t, &fakeLeadRepo{})

	req := adminRequest("admin_main")
	req.MessageID = 0

	app.Router.Dispatch(context.Background(), req)

	if len(messenger.sent) != 1 || len(messenger.edited) != 0 {
		t.Errorf("expected a send, got %d sends %d edits", len(messenger.sent), len(messenger.edited))
	}
}

func TestStaticRoutesReachTheirModules(t *testing.T) {
	repo := &fakeLeadRepo{leads: []*domain.Lead{storedLead("555", domain.SegmentHot)}}
	app, messenger, _ := newTestApp(t, repo)

	tests := []struct {
		data string
		want string
	}{
		{"admin_help", "This panel manages leads"},
		{"admin_leads", "Choose a view"},
		{"admin_leads_hot", "Hot leads"},
		{"admin_stats_segments", "Leads per segment"},
		{"admin_system", "System diagnostics"},
	}

	for _, tt := range tests {
		before := messenger.outbound()
		result := app.Router.Dispatch(context.Background(), adminRequest(tt.data))
		if result != DispatchHandled {
			t.Errorf("%s: result = %v, want DispatchHandled", tt.data, result)
			continue
		}
		if messenger.outbound() != before+1 {
			t.Errorf("%s: expected exactly one display operation", tt.data)
			continue
		}
		last := messenger.edited[len(messenger.edited)-1]
		if !strings.Contains(last.Text, tt.want) {
			t.Errorf("%s: text %q does not contain %q", tt.data, last.Text, tt.want)
		}
	}
}

// failingModule claims one identifier and always fails
type failingModule struct{ data string }

func (m *failingModule) Name() string { return "failing" }

func (m *failingModule) TryHandle(ctx context.Context, req *CallbackRequest) (bool, error) {
	if req.Data != m.data {
		return false, nil
	}
	return true, fmt.Errorf("store unavailable")
}

// panickingModule claims one identifier and panics while handling it
type panickingModule struct{ data string }

func (m *panickingModule) Name() string { return "panicking" }

func (m *panickingModule) TryHandle(ctx context.Context, req *CallbackRequest) (bool, error) {
	if req.Data == m.data {
		panic("boom")
	}
	return false, nil
}

// claimRecorder records the order in which modules were offered the callback
type claimRecorder struct {
	name    string
	claim   bool
	visited *[]string
}

func (m *claimRecorder) Name() string { return m.name }

func (m *claimRecorder) TryHandle(ctx context.Context, req *CallbackRequest) (bool, error) {
	*m.visited = append(*m.visited, m.name)
	return m.claim, nil
}

func newBareRouter(t *testing.T, modules []Module, usage *fakeUsage) (*Router, *recorderMessenger) {
	t.Helper()
	messenger := &recorderMessenger{}
	localizer := testLocalizer(t)
	repo := &fakeLeadRepo{}
	v := newViews(localizer, time.UTC)
	actions := NewActionSet(messenger, v, repo, localizer, testLogger{}, testAdminID)
	return NewRouter(messenger, modules, actions, usage, testConfig(), localizer, testLogger{}), messenger
}

func TestModulesScanInPriorityOrder(t *testing.T) {
	var visited []string
	modules := []Module{
		&claimRecorder{name: "first", visited: &visited},
		&claimRecorder{name: "second", claim: true, visited: &visited},
		&claimRecorder{name: "third", visited: &visited},
	}
	router, _ := newBareRouter(t, modules, newFakeUsage())

	result := router.Dispatch(context.Background(), adminRequest("admin_anything_at_all"))

	if result != DispatchHandled {
		t.Fatalf("result = %v, want DispatchHandled", result)
	}
	if len(visited) != 2 || visited[0] != "first" || visited[1] != "second" {
		t.Errorf("scan order %v: claiming module must stop the scan", visited)
	}
}

func TestModuleErrorIsTerminal(t *testing.T) {
	var visited []string
	usage := newFakeUsage()
	modules := []Module{
		&failingModule{data: "admin_stats"},
		&claimRecorder{name: "later", visited: &visited},
	}
	router, messenger := newBareRouter(t, modules, usage)

	result := router.Dispatch(context.Background(), adminRequest("admin_stats"))

	if result != DispatchFailed {
		t.Fatalf("result = %v, want DispatchFailed", result)
	}
	if len(visited) != 0 {
		t.Errorf("error was offered to a later module: %v", visited)
	}
	if messenger.outbound() != 1 {
		t.Fatalf("expected exactly one display operation, got %d", messenger.outbound())
	}
	if !strings.Contains(messenger.edited[0].Text, "Something went wrong") {
		t.Errorf("unexpected failure text: %q", messenger.edited[0].Text)
	}
	if usage.failures["admin_stats"] != 1 {
		t.Errorf("failure not counted: %v", usage.failures)
	}
}

func TestModulePanicBecomesFailure(t *testing.T) {
	router, messenger := newBareRouter(t, []Module{&panickingModule{data: "admin_system"}}, newFakeUsage())

	result := router.Dispatch(context.Background(), adminRequest("admin_system"))

	if result != DispatchFailed {
		t.Fatalf("result = %v, want DispatchFailed", result)
	}
	if messenger.outbound() != 1 {
		t.Errorf("expected exactly one display operation, got %d", messenger.outbound())
	}
}

func TestFallbackViewLead(t *testing.T) {
	repo := &fakeLeadRepo{leads: []*domain.Lead{storedLead("555", domain.SegmentHot)}}
	app, messenger, _ := newTestApp(t, repo)

	result := app.Router.Dispatch(context.Background(), adminRequest("admin_view_lead_555"))

	if result != DispatchHandled {
		t.Fatalf("result = %v, want DispatchHandled", result)
	}
	if len(messenger.edited) != 1 {
		t.Fatalf("expected one edit, got %d", len(messenger.edited))
	}
	edit := messenger.edited[0]
	if !strings.Contains(edit.Text, "Ann Example") {
		t.Errorf("detail view missing lead name: %q", edit.Text)
	}
	if edit.ParseMode != models.ParseModeMarkdown {
		t.Errorf("detail view parse mode = %q", edit.ParseMode)
	}
}

func TestFallbackUnknownActionLeavesStoreAlone(t *testing.T) {
	repo := &fakeLeadRepo{leads: []*domain.Lead{storedLead("999", domain.SegmentWarm)}}
	app, messenger, _ := newTestApp(t, repo)

	result := app.Router.Dispatch(context.Background(), adminRequest("admin_unknown_thing_999"))

	if result != DispatchUnknown {
		t.Fatalf("result = %v, want DispatchUnknown", result)
	}
	if repo.reads != 0 || repo.mutation != 0 {
		t.Errorf("unknown action touched the store: reads=%d mutations=%d", repo.reads, repo.mutation)
	}
	if len(messenger.edited) != 1 || !strings.Contains(messenger.edited[0].Text, "not recognized") {
		t.Errorf("expected the not-recognized reply, got %+v", messenger.edited)
	}
}

func TestFallbackMalformedIdentifier(t *testing.T) {
	app, messenger, _ := newTestApp(t, &fakeLeadRepo{})

	result := app.Router.Dispatch(context.Background(), adminRequest("garbage"))

	if result != DispatchUnknown {
		t.Fatalf("result = %v, want DispatchUnknown", result)
	}
	if len(messenger.edited) != 1 || !strings.Contains(messenger.edited[0].Text, "Unknown command") {
		t.Errorf("expected the unknown-command reply, got %+v", messenger.edited)
	}
}

func TestHandleCallbackAdaptsUpdate(t *testing.T) {
	app, messenger, usage := newTestApp(t, &fakeLeadRepo{})

	update := &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-raw",
			From: models.User{ID: testAdminID},
			Data: "admin_main",
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{
					ID:   77,
					Chat: models.Chat{ID: 100},
				},
			},
		},
	}

	app.Router.HandleCallback(context.Background(), nil, update)

	if len(messenger.edited) != 1 || messenger.edited[0].MessageID != 77 {
		t.Fatalf("expected an edit of message 77, got %+v", messenger.edited)
	}
	if usage.counts["admin_main"] != 1 {
		t.Errorf("dispatch not counted: %v", usage.counts)
	}
	if len(messenger.answered) != 1 || messenger.answered[0].CallbackQueryID != "cb-raw" {
		t.Errorf("callback not acknowledged: %+v", messenger.answered)
	}
}
