package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
)

// ExportDocument is the canonical JSON form of a conversation. Field order
// is fixed by the struct so exports diff cleanly.
type ExportDocument struct {
	Title     string          `json:"title"`
	Timestamp time.Time       `json:"timestamp"`
	Messages  []ExportMessage `json:"messages"`
	Stats     ExportStats     `json:"stats"`
}

type ExportMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ExportStats struct {
	MessageCount           int   `json:"messageCount"`
	SessionDurationSeconds int64 `json:"sessionDurationSeconds"`
}

// ExportConversation builds the export document for a conversation.
// Duration comes from the monotonic clock via time.Since and is clamped at
// zero.
func ExportConversation(conv Conversation, sessionStart time.Time) (ExportDocument, error) {
	if len(conv.Messages) == 0 {
		return ExportDocument{}, errors.Wrapf(ErrEmptyConversation, "conversation %q", conv.Title)
	}

	duration := time.Since(sessionStart)
	if duration < 0 {
		duration = 0
	}

	msgs := make([]ExportMessage, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, ExportMessage{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}

	return ExportDocument{
		Title:     conv.Title,
		Timestamp: time.Now(),
		Messages:  msgs,
		Stats: ExportStats{
			MessageCount:           len(conv.Messages),
			SessionDurationSeconds: int64(duration.Seconds()),
		},
	}, nil
}

// ExportFilename returns the suggested export filename,
// gemchat_conversation_<YYYYMMDD_HHMMSS>.json.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("gemchat_conversation_%s.json", now.Format("20060102_150405"))
}

func WriteExport(doc ExportDocument, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing export")
	}
	return nil
}

// ParseExport re-reads an export document. Exports must round-trip: all
// messages in original order with exact content.
func ParseExport(data []byte) (ExportDocument, error) {
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ExportDocument{}, errors.Wrap(err, "parsing export")
	}
	return doc, nil
}
