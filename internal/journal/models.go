package journal

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/storage"
	"github.com/cvsbridge/cvsbridge/pkg/badgerfx"
)

const (
	prefix = "run:"

	prefixByID      = prefix + "id:"
	prefixByWorkDir = prefix + "workdir:"
)

type messageModel struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// recordModel is the stored form of a Record. Keys sort by creation time.
type recordModel struct {
	storage.BaseEntity

	Kind    cvs.Kind `json:"kind"`
	Root    string   `json:"root"`
	WorkDir string   `json:"work_dir"`
	Target  string   `json:"target"`

	State       cvs.State  `json:"state"`
	Progress    string     `json:"progress"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	ExitCode int                  `json:"exit_code"`
	Message  string               `json:"message"`
	Error    string               `json:"error"`
	Changes  *changeset.Changeset `json:"changes"`
	Diff     string               `json:"diff"`

	Messages []messageModel `json:"messages"`
	Log      []string       `json:"log"`
}

var _ badgerfx.Entity = (*recordModel)(nil)

func newRecordModel(draft *RecordDraft) *recordModel {
	if draft == nil {
		return nil
	}

	model := &recordModel{
		BaseEntity: storage.NewBaseEntity(),
	}
	model.apply(draft)

	return model
}

func (m *recordModel) apply(draft *RecordDraft) {
	m.Kind = draft.Kind
	m.Root = draft.Location.Root
	m.WorkDir = draft.Location.WorkDir
	m.Target = draft.Target
	m.State = draft.State
	m.Progress = draft.Progress
	m.StartedAt = draft.StartedAt
	m.CompletedAt = draft.CompletedAt
	m.ExitCode = draft.ExitCode
	m.Message = draft.Message
	m.Error = draft.Error
	m.Changes = draft.Changes
	m.Diff = draft.Diff
	m.Log = draft.Log

	m.Messages = make([]messageModel, 0, len(draft.Messages))
	for _, msg := range draft.Messages {
		m.Messages = append(m.Messages, messageModel(msg))
	}
}

func newRecord(model *recordModel) *Record {
	if model == nil {
		return nil
	}

	messages := make([]Message, 0, len(model.Messages))
	for _, msg := range model.Messages {
		messages = append(messages, Message(msg))
	}

	return &Record{
		RecordDraft: RecordDraft{
			Kind:        model.Kind,
			Location:    cvs.Location{Root: model.Root, WorkDir: model.WorkDir},
			Target:      model.Target,
			State:       model.State,
			Progress:    model.Progress,
			StartedAt:   model.StartedAt,
			CompletedAt: model.CompletedAt,
			ExitCode:    model.ExitCode,
			Message:     model.Message,
			Error:       model.Error,
			Changes:     model.Changes,
			Diff:        model.Diff,
			Messages:    messages,
			Log:         model.Log,
		},
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func keyByID(id string) string {
	return prefixByID + id
}

func workDirPrefix(workDir string) string {
	return prefixByWorkDir + base64.RawURLEncoding.EncodeToString([]byte(workDir)) + ":"
}

func (m *recordModel) StorageKey() string {
	return keyByID(m.ID.String())
}

func (m *recordModel) StorageIndexes() []string {
	return []string{workDirPrefix(m.WorkDir) + m.ID.String()}
}

func (m *recordModel) MarshalStorage() ([]byte, error) {
	//nolint:wrapcheck //wrapped by the repository
	return json.Marshal(m)
}

func (m *recordModel) UnmarshalStorage(data []byte) error {
	//nolint:wrapcheck //wrapped by the repository
	return json.Unmarshal(data, m)
}
