package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tasks/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking here; callers that share the file across processes lock
// around Open..Save themselves.

// DefaultFileName is used when Open is given an empty path.
const DefaultFileName = "db.json"

// The file is an object of label -> flag, where true means incomplete.
const fileSchema = `{
  "type": "object",
  "propertyNames": { "minLength": 1 },
  "additionalProperties": { "type": "boolean" }
}`

var schema = jsonschema.MustCompileString("tasks-db.schema.json", fileSchema)

// Store maps task labels to their incomplete flag.
type Store struct {
	path   string
	tasks  map[string]bool
	logger *log.Logger
	encode func(map[string]bool) ([]byte, error)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes debug output about loads and saves to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads the store at path, creating an empty file if none exists.
// Existing content is never modified by Open.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	s := &Store{
		path:   path,
		tasks:  map[string]bool{},
		logger: log.New(io.Discard),
		encode: encodeIndent,
	}
	for _, opt := range opts {
		opt(s)
	}

	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		s.logger.Debug("starting empty store", "path", path)
		return s, nil
	}

	tasks, err := decode(b)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	s.tasks = tasks
	s.logger.Debug("loaded store", "path", path, "tasks", len(tasks))
	return s, nil
}

func decode(b []byte) (map[string]bool, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}
	tasks := map[string]bool{}
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// schemaError reduces a validation tree to its first leaf.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return errors.New(ve.Message)
	}
	return fmt.Errorf("%s: %s", ve.InstanceLocation, ve.Message)
}

func encodeIndent(tasks map[string]bool) ([]byte, error) {
	return json.MarshalIndent(tasks, "", "  ")
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Insert marks label incomplete, overwriting any previous status.
// It returns the previous flag and whether the label was already present.
func (s *Store) Insert(label model.Label) (previous, existed bool) {
	previous, existed = s.tasks[string(label)]
	s.tasks[string(label)] = true
	return previous, existed
}

// Complete marks label completed. It returns false if label is unknown.
func (s *Store) Complete(label string) bool {
	if _, ok := s.tasks[label]; !ok {
		return false
	}
	s.tasks[label] = false
	return true
}

// List returns a snapshot of every label and its status.
func (s *Store) List() map[string]model.Status {
	out := make(map[string]model.Status, len(s.tasks))
	for label, incomplete := range s.tasks {
		out[label] = model.StatusOf(incomplete)
	}
	return out
}

// Tasks returns the same snapshot as List, sorted by label.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for label, incomplete := range s.tasks {
		out = append(out, model.Task{Label: label, Status: model.StatusOf(incomplete)})
	}
	model.SortTasks(out)
	return out
}

// Counts returns how many tasks are done and how many are pending.
func (s *Store) Counts() (done, pending int) {
	for _, incomplete := range s.tasks {
		if incomplete {
			pending++
		} else {
			done++
		}
	}
	return
}

// Save replaces the file content with the current mapping.
// On failure the in-memory mapping is untouched and Save can be retried.
func (s *Store) Save() error {
	b, err := s.encode(s.tasks)
	if err != nil {
		return &EncodeError{Path: s.path, Err: err}
	}
	b = append(b, '\n')
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	s.logger.Debug("saved store", "path", s.path, "tasks", len(s.tasks))
	return nil
}
