// Package settings persists the host-tunable behaviour of the footnotes
// module as a JSON document, validated against a schema before anything is
// read or written so a hand-edited file cannot poison the runtime.
package settings

// Settings captures the knobs hosts are expected to edit by hand.
type Settings struct {
	AutoRenumberOnInsert  bool   `json:"auto_renumber_on_insert"`
	CursorToDefinition    bool   `json:"cursor_to_definition"`
	BackupsEnabled        bool   `json:"backups_enabled"`
	BackupDir             string `json:"backup_dir"`
	RetentionDays         int    `json:"retention_days"`
	MaxBackupsPerDocument int    `json:"max_backups_per_document"`
}

// Default returns the settings applied when no file exists yet.
func Default() Settings {
	return Settings{
		AutoRenumberOnInsert:  true,
		CursorToDefinition:    false,
		BackupsEnabled:        true,
		BackupDir:             ".footnotes/backups",
		RetentionDays:         30,
		MaxBackupsPerDocument: 20,
	}
}

// schema validates the persisted JSON shape. Unknown keys are rejected so
// typos in hand-edited files surface as errors instead of silent defaults.
var schema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"auto_renumber_on_insert":  map[string]any{"type": "boolean"},
		"cursor_to_definition":     map[string]any{"type": "boolean"},
		"backups_enabled":          map[string]any{"type": "boolean"},
		"backup_dir":               map[string]any{"type": "string"},
		"retention_days":           map[string]any{"type": "integer", "minimum": 0},
		"max_backups_per_document": map[string]any{"type": "integer", "minimum": 0},
	},
}
