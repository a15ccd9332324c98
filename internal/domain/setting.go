package domain

import "time"

// Setting is a last-write-wins key/value pair.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Setting keys used by the surrounding CLI/TUI features. All optional.
const (
	SettingWorkerName          = "workerName"
	SettingLastActiveProjectID = "lastActiveProjectId"
	SettingDefaultWorkType     = "defaultWorkType"
	SettingTheme               = "theme"
	SettingSyncEnabled         = "syncEnabled"
	SettingLastSyncAt          = "lastSyncAt"
)
