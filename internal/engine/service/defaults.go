package service

// defaultSetting is one built-in default applied by InitializeDefaults.
type defaultSetting struct {
	Key      string
	Value    string
	Category string
}

// defaultSettings is the full built-in set. Categories group keys for
// GetByCategory-style reads; module flags default conservative (off) except
// the suite's core modules.
var defaultSettings = []defaultSetting{
	// general
	{"company_name", "My Company", "general"},
	{"company_email", "", "general"},
	{"company_phone", "", "general"},
	{"company_website", "", "general"},
	{"company_address", "", "general"},
	{"company_logo", "", "general"},
	{"company_favicon", "", "general"},
	{"app_name", "Concord", "general"},
	{"fiscal_year_start", "01-01", "general"},
	{"terms_url", "", "general"},
	{"privacy_url", "", "general"},

	// localization
	{"default_language", "en", "localization"},
	{"timezone", "UTC", "localization"},
	{"date_format", "Y-m-d", "localization"},
	{"time_format", "H:i", "localization"},
	{"week_start", "1", "localization"},
	{"currency_code", "USD", "localization"},
	{"currency_symbol", "$", "localization"},
	{"currency_position", "left", "localization"},
	{"currency_decimals", "2", "localization"},
	{"thousand_separator", ",", "localization"},
	{"decimal_separator", ".", "localization"},

	// theme
	{"theme_mode", "light", "theme"},
	{"primary_color", "#1890ff", "theme"},
	{"secondary_color", "#f5222d", "theme"},
	{"font_family", "Inter", "theme"},
	{"sidebar_collapsed", "0", "theme"},
	{"compact_tables", "0", "theme"},

	// module flags
	{"module_crm", "1", "modules"},
	{"module_leads", "1", "modules"},
	{"module_projects", "1", "modules"},
	{"module_tasks", "1", "modules"},
	{"module_invoices", "1", "modules"},
	{"module_estimates", "1", "modules"},
	{"module_contracts", "1", "modules"},
	{"module_items", "1", "modules"},
	{"module_tickets", "0", "modules"},
	{"module_events", "0", "modules"},
	{"module_messages", "0", "modules"},
	{"module_knowledgebase", "0", "modules"},
	{"module_purchase", "0", "modules"},
	{"module_assets", "0", "modules"},
	{"module_payroll", "0", "modules"},
	{"module_recruit", "0", "modules"},

	// notifications
	{"notify_email_enabled", "1", "notifications"},
	{"notify_push_enabled", "0", "notifications"},
	{"notify_task_assigned", "1", "notifications"},
	{"notify_invoice_paid", "1", "notifications"},
	{"notify_lead_created", "1", "notifications"},
	{"notify_ticket_replied", "0", "notifications"},
	{"notify_daily_digest", "0", "notifications"},

	// mail
	{"email_driver", "smtp", "mail"},
	{"smtp_host", "", "mail"},
	{"smtp_port", "587", "mail"},
	{"smtp_username", "", "mail"},
	{"smtp_password", "", "mail"},
	{"smtp_encryption", "tls", "mail"},
	{"mail_from_address", "", "mail"},
	{"mail_from_name", "", "mail"},

	// integrations
	{"google_calendar_enabled", "0", "integrations"},
	{"google_calendar_id", "", "integrations"},
	{"slack_enabled", "0", "integrations"},
	{"slack_channel", "", "integrations"},
	{"zapier_enabled", "0", "integrations"},
	{"zapier_event_filter", "", "integrations"},

	// cron
	{"cron_job_enabled", "0", "cron"},
	{"cron_timezone", "UTC", "cron"},
	{"cron_daily_digest_spec", "0 7 * * *", "cron"},
	{"cron_reminder_spec", "*/30 * * * *", "cron"},

	// access control
	{"session_timeout_minutes", "60", "access"},
	{"max_login_attempts", "5", "access"},
	{"password_min_length", "8", "access"},
	{"two_factor_required", "0", "access"},
	{"allowed_ip_ranges", "", "access"},
	{"rows_per_page", "25", "access"},

	// client portal
	{"client_portal_enabled", "0", "client_portal"},
	{"client_portal_title", "Client Portal", "client_portal"},
	{"client_portal_allow_signup", "0", "client_portal"},
	{"client_portal_show_invoices", "1", "client_portal"},
	{"client_portal_show_estimates", "1", "client_portal"},
	{"client_portal_show_projects", "1", "client_portal"},

	// pwa
	{"pwa_enabled", "0", "pwa"},
	{"pwa_name", "Concord", "pwa"},
	{"pwa_short_name", "Concord", "pwa"},
	{"pwa_description", "", "pwa"},
	{"pwa_theme_color", "#1890ff", "pwa"},
	{"pwa_background_color", "#ffffff", "pwa"},
	{"pwa_display", "standalone", "pwa"},
	{"pwa_icon", "", "pwa"},
}
