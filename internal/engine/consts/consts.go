package consts

const (
	// ModuleKeyPrefix prefixes the per-module enable flags, e.g. module_crm.
	ModuleKeyPrefix = "module_"
)

// Well-known setting keys the dispatcher reacts to.
const (
	KeyEmailDriver           = "email_driver"
	KeyCronJobEnabled        = "cron_job_enabled"
	KeyGoogleCalendarEnabled = "google_calendar_enabled"
	KeySlackEnabled          = "slack_enabled"
	KeyZapierEnabled         = "zapier_enabled"
	KeyPwaEnabled            = "pwa_enabled"

	KeyThemeMode      = "theme_mode"
	KeyPrimaryColor   = "primary_color"
	KeySecondaryColor = "secondary_color"
	KeyFontFamily     = "font_family"
)
