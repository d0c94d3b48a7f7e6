package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Record describes one accepted change to a user's GIF tags.
type Record struct {
	Time      time.Time `json:"time"`
	RequestID string    `json:"request_id,omitempty"`
	Action    string    `json:"action"`
	TgUserID  int64     `json:"tg_user_id"`
	GifID     string    `json:"gif_id"`
	GifIDType string    `json:"gif_id_type,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Deleted   *int64    `json:"deleted,omitempty"`
}

const (
	ActionSetTags    = "set_tags"
	ActionDeleteTags = "delete_tags"
)

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveJSON saves the provided data as JSON to a file with UUID4 filename
func (a *Auditor) SaveJSON(data any) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	log.Debug().Str("path", path).Msg("Saved audit file")
	return filename, nil
}

// Save stores r, stamping the time when unset. Failures are logged and
// swallowed so auditing never fails the change it describes.
func (a *Auditor) Save(r Record) {
	if r.Time.IsZero() {
		r.Time = time.Now().UTC()
	}
	if _, err := a.SaveJSON(r); err != nil {
		log.Error().Err(err).Str("action", r.Action).Msg("Failed to save audit record")
	}
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
