package locale

// Message key constants for localization
// All user-facing messages should use these constants to ensure consistency

const (
	// ============================================================================
	// MAIN PANEL AND NAVIGATION
	// ============================================================================

	MainPanelTitle = "MainPanelTitle"
	MainPanelText  = "MainPanelText"

	ButtonLeads      = "ButtonLeads"
	ButtonStats      = "ButtonStats"
	ButtonSystem     = "ButtonSystem"
	ButtonHelp       = "ButtonHelp"
	ButtonRefresh    = "ButtonRefresh"
	ButtonBackToMain = "ButtonBackToMain"

	HelpText     = "HelpText"
	StartWelcome = "StartWelcome"

	// ============================================================================
	// LEAD LISTS
	// ============================================================================

	LeadsMenuTitle         = "LeadsMenuTitle"
	ButtonLeadsHot         = "ButtonLeadsHot"
	ButtonLeadsToday       = "ButtonLeadsToday"
	ButtonLeadsUnprocessed = "ButtonLeadsUnprocessed"

	LeadsHotTitle         = "LeadsHotTitle"
	LeadsTodayTitle       = "LeadsTodayTitle"
	LeadsUnprocessedTitle = "LeadsUnprocessedTitle"
	LeadsEmpty            = "LeadsEmpty"
	LeadsMoreLine         = "LeadsMoreLine"
	TodaySegmentHeader    = "TodaySegmentHeader"

	// ============================================================================
	// LEAD DETAIL VIEW AND ACTIONS
	// ============================================================================

	LeadDetailTitle           = "LeadDetailTitle"
	LeadDetailID              = "LeadDetailID"
	LeadDetailUsername        = "LeadDetailUsername"
	LeadDetailSegment         = "LeadDetailSegment"
	LeadDetailIssue           = "LeadDetailIssue"
	LeadDetailScore           = "LeadDetailScore"
	LeadDetailScoreMissing    = "LeadDetailScoreMissing"
	LeadDetailCreated         = "LeadDetailCreated"
	LeadDetailStatusProcessed = "LeadDetailStatusProcessed"
	LeadDetailStatusOpen      = "LeadDetailStatusOpen"
	LeadDetailUrgentFlag      = "LeadDetailUrgentFlag"
	LeadNotFound              = "LeadNotFound"

	ButtonContactLead   = "ButtonContactLead"
	ButtonMarkProcessed = "ButtonMarkProcessed"
	ButtonReopenLead    = "ButtonReopenLead"
	ButtonMarkUrgent    = "ButtonMarkUrgent"
	ButtonClearUrgent   = "ButtonClearUrgent"
	ButtonChangeSegment = "ButtonChangeSegment"
	ButtonBackToLead    = "ButtonBackToLead"
	ButtonBackToLeads   = "ButtonBackToLeads"

	ChangeSegmentTitle    = "ChangeSegmentTitle"
	ContactLeadUsername   = "ContactLeadUsername"
	ContactLeadNoUsername = "ContactLeadNoUsername"

	// Segment display labels
	SegmentHotLabel     = "SegmentHotLabel"
	SegmentWarmLabel    = "SegmentWarmLabel"
	SegmentColdLabel    = "SegmentColdLabel"
	SegmentNurtureLabel = "SegmentNurtureLabel"

	// ============================================================================
	// STATS
	// ============================================================================

	StatsMenuTitle      = "StatsMenuTitle"
	ButtonStatsSegments = "ButtonStatsSegments"
	ButtonStatsIssues   = "ButtonStatsIssues"
	ButtonStatsAverage  = "ButtonStatsAverage"

	StatsSegmentsTitle = "StatsSegmentsTitle"
	StatsIssuesTitle   = "StatsIssuesTitle"
	StatsCountRow      = "StatsCountRow"
	StatsAverageText   = "StatsAverageText"
	StatsNoData        = "StatsNoData"

	// ============================================================================
	// SYSTEM DIAGNOSTICS
	// ============================================================================

	SystemTitle       = "SystemTitle"
	SystemUptime      = "SystemUptime"
	SystemLeads       = "SystemLeads"
	SystemUnprocessed = "SystemUnprocessed"
	SystemUsageTitle  = "SystemUsageTitle"
	SystemUsageRow    = "SystemUsageRow"
	SystemUsageEmpty  = "SystemUsageEmpty"
	ButtonSystemUsage = "ButtonSystemUsage"

	// ============================================================================
	// ERRORS
	// ============================================================================

	ErrorUnauthorized   = "ErrorUnauthorized"
	ErrorUnknownCommand = "ErrorUnknownCommand"
	ErrorNotRecognized  = "ErrorNotRecognized"
	ErrorGeneric        = "ErrorGeneric"
)
