package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const DefaultTitle = "New Conversation"

// Store owns the per-session conversation state: the active message list
// and the registry of saved conversation snapshots. Saved conversations
// live only for the process lifetime; the flat-file export is the only
// durable artifact.
//
// All methods are safe for concurrent use; the mutex covers the short
// in-memory mutations, nothing here blocks.
type Store struct {
	mu sync.Mutex

	messages []Message
	activeID string
	title    string
	saved    map[string]Conversation

	// seq never decreases, so message ids stay unique even after
	// deletions shift positions.
	seq          int
	sessionStart time.Time
}

func NewStore() *Store {
	return &Store{
		messages:     []Message{},
		title:        DefaultTitle,
		saved:        map[string]Conversation{},
		sessionStart: time.Now(),
	}
}

// SessionStart is the instant this session began, used for export stats.
func (s *Store) SessionStart() time.Time {
	return s.sessionStart
}

// AppendMessage stamps and appends a new message to the active
// conversation. Ids combine the role with a monotonically increasing
// sequence number ("user_0", "assistant_1"); surviving ids are never
// renumbered after a deletion.
func (s *Store) AppendMessage(role, content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		ID:        fmt.Sprintf("%s_%d", role, s.seq),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.seq++
	s.messages = append(s.messages, msg)
	return msg
}

// DeleteMessage removes the message at index. Surviving messages keep
// their ids.
func (s *Store) DeleteMessage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.messages) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, %d messages", index, len(s.messages))
	}
	s.messages = append(s.messages[:index], s.messages[index+1:]...)
	return nil
}

// ClearActive empties the active conversation and detaches it from any
// saved snapshot. Saved conversations are untouched.
func (s *Store) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = []Message{}
	s.activeID = ""
	s.title = DefaultTitle
	s.seq = 0
}

// Save snapshots the active conversation into the saved registry. The
// first save mints a time-derived id and binds it to the session; later
// saves overwrite that entry. Saving an empty conversation is a no-op and
// returns an empty id.
func (s *Store) Save() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return ""
	}

	id := s.activeID
	if id == "" {
		id = fmt.Sprintf("%d", time.Now().UnixNano())
		s.activeID = id
	}

	existing, ok := s.saved[id]
	createdAt := time.Now()
	if ok {
		createdAt = existing.CreatedAt
	}

	s.saved[id] = Conversation{
		ID:           id,
		Title:        s.title,
		Messages:     copyMessages(s.messages),
		CreatedAt:    createdAt,
		MessageCount: len(s.messages),
	}
	return id
}

// Load replaces the active conversation with a copy of the saved snapshot.
// The loaded conversation becomes the live, further-mutable copy; the
// stored snapshot only changes on the next Save.
func (s *Store) Load(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.saved[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "conversation %q", id)
	}

	s.messages = copyMessages(conv.Messages)
	s.title = conv.Title
	s.activeID = conv.ID
	s.seq = nextSeq(conv.Messages)
	return nil
}

// Delete removes a saved conversation. If it is also the active one, only
// the saved record goes away; the live messages stay.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.saved[id]; !ok {
		return errors.Wrapf(ErrNotFound, "conversation %q", id)
	}
	delete(s.saved, id)
	return nil
}

// Get returns a copy of a saved conversation snapshot.
func (s *Store) Get(id string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.saved[id]
	if !ok {
		return Conversation{}, errors.Wrapf(ErrNotFound, "conversation %q", id)
	}
	conv.Messages = copyMessages(conv.Messages)
	return conv, nil
}

// List returns summaries of the saved conversations, most recent first.
func (s *Store) List() []ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]ConversationSummary, 0, len(s.saved))
	for _, conv := range s.saved {
		summaries = append(summaries, ConversationSummary{
			ID:           conv.ID,
			Title:        conv.Title,
			MessageCount: conv.MessageCount,
			CreatedAt:    conv.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries
}

// ActiveMessages returns a copy of the live message list.
func (s *Store) ActiveMessages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.messages)
}

func (s *Store) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *Store) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *Store) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	s.title = title
}

// ActiveConversation materializes the live state as a Conversation value
// for export. The id may be empty if the session was never saved.
func (s *Store) ActiveConversation() Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Conversation{
		ID:           s.activeID,
		Title:        s.title,
		Messages:     copyMessages(s.messages),
		CreatedAt:    s.sessionStart,
		MessageCount: len(s.messages),
	}
}

func copyMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// nextSeq picks the sequence counter for a loaded conversation so new ids
// never collide with snapshot ids.
func nextSeq(msgs []Message) int {
	max := -1
	for _, m := range msgs {
		idx := strings.LastIndexByte(m.ID, '_')
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(m.ID[idx+1:])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}
