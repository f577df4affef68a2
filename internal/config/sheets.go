package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/chore-chart/internal/sheets"
)

// sheetsSetting ties a sheets.* key to its GOOGLE_SHEETS_* fallback.
type sheetsSetting struct {
	dst  *string
	key  string
	env  string
	path bool
}

// LoadSheetsConfig reads the sheets.* keys (config file or CHORES_SHEETS_*
// variables). Keys left empty fall back to the GOOGLE_SHEETS_* variables.
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	settings := []sheetsSetting{
		{dst: &config.ServiceAccountPath, key: "sheets.service_account_path", env: "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", path: true},
		{dst: &config.ClientID, key: "sheets.client_id", env: "GOOGLE_SHEETS_CLIENT_ID"},
		{dst: &config.ClientSecret, key: "sheets.client_secret", env: "GOOGLE_SHEETS_CLIENT_SECRET"},
		{dst: &config.RefreshToken, key: "sheets.refresh_token", env: "GOOGLE_SHEETS_REFRESH_TOKEN"},
		{dst: &config.SpreadsheetID, key: "sheets.spreadsheet_id", env: "GOOGLE_SHEETS_SPREADSHEET_ID"},
		{dst: &config.SpreadsheetName, key: "sheets.spreadsheet_name", env: "GOOGLE_SHEETS_SPREADSHEET_NAME"},
		{dst: &config.TimeZone, key: "sheets.time_zone"},
	}
	for _, s := range settings {
		v := viper.GetString(s.key)
		if v == "" && s.env != "" {
			v = os.Getenv(s.env)
		}
		if v == "" {
			continue
		}
		if s.path {
			v = ExpandPath(v)
		}
		*s.dst = v
	}

	// OAuth credentials win over a service account picked up from the environment.
	if config.HasOAuth() && viper.GetString("sheets.service_account_path") == "" {
		config.ServiceAccountPath = ""
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
