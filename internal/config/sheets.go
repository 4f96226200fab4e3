package config

import "time"

const defaultSheetsTimeout = 15 * time.Second

type SheetsConfig struct {
	Spreadsheet     string        `yaml:"spreadsheet-id" envconfig:"SPREADSHEET_ID"`
	Sheet           string        `yaml:"sheet-name" envconfig:"SHEET_NAME"`
	CredentialsJSON string        `yaml:"credentials-json" envconfig:"GOOGLE_CREDENTIALS_JSON"`
	CredentialsPath string        `yaml:"credentials-file" envconfig:"GOOGLE_CREDENTIALS_FILE"`
	RequestTimeout  time.Duration `yaml:"request-timeout" envconfig:"SHEETS_REQUEST_TIMEOUT"`
}

func (s *SheetsConfig) SpreadsheetID() string {
	return s.Spreadsheet
}

func (s *SheetsConfig) SheetName() string {
	return s.Sheet
}

func (s *SheetsConfig) Credentials() string {
	return s.CredentialsJSON
}

func (s *SheetsConfig) CredentialsFile() string {
	return s.CredentialsPath
}

func (s *SheetsConfig) Timeout() time.Duration {
	return s.RequestTimeout
}
