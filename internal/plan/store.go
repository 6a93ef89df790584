package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/planwright/planwright/internal/errors"
)

// planFileMode is the permission applied to plan documents on save.
const planFileMode = 0644

// Load reads and parses the plan document at path.
//
// Failures are typed so callers can map them to stable error tokens:
// a missing file, unreadable file, malformed JSON, unsupported schema
// version, and a plan with no nodes are all distinct errors. On success
// the document is normalized (missing statuses become pending).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("plan", path)
		}
		return nil, errors.NewStoreError("failed to read plan", err).
			WithPath(path).
			WithOp("read")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewParseError(path, err)
	}

	if doc.SchemaVersion != SchemaVersion {
		detail := fmt.Sprintf("schemaVersion %d is not supported (want %d)",
			doc.SchemaVersion, SchemaVersion)
		return nil, errors.NewSchemaError(detail, errors.ErrSchemaMismatch)
	}
	if len(doc.Nodes) == 0 {
		return nil, errors.NewSchemaError("plan contains no nodes", errors.ErrEmptyPlan)
	}

	doc.Normalize()
	return &doc, nil
}

// Marshal renders the document in its canonical on-disk form: two-space
// indented JSON with a trailing newline.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes the document to path atomically. The previous file content
// survives byte for byte if any step fails.
func Save(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return errors.NewStoreError("failed to encode plan", err).
			WithPath(path).
			WithOp("write")
	}
	return AtomicWrite(path, data, planFileMode)
}

// AtomicWrite writes data to path atomically by writing to a temporary file
// in the same directory, then renaming over the target. The target file is
// never observed in a partially written state, and a failed write leaves no
// temporary file behind.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Temp file must live in the target directory for the rename to be atomic.
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errors.NewStoreError("failed to create temp file", err).
			WithPath(path).
			WithOp("write")
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return errors.NewStoreError("failed to write temp file", err).
			WithPath(path).
			WithOp("write")
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return errors.NewStoreError("failed to sync temp file", err).
			WithPath(path).
			WithOp("write")
	}

	if err := tmpFile.Close(); err != nil {
		return errors.NewStoreError("failed to close temp file", err).
			WithPath(path).
			WithOp("write")
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return errors.NewStoreError("failed to set permissions", err).
			WithPath(path).
			WithOp("write")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.NewStoreError("failed to rename temp file", err).
			WithPath(path).
			WithOp("write")
	}

	success = true
	return nil
}
