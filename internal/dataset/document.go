package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Document is a loaded skills content file. It keeps the original bytes so
// that fields this tool does not model (advancedTopics, projects, metadata,
// ...) survive a rewrite with their values and order intact.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string

	// Skills is the decoded dataset. Callers must treat it as read-only;
	// pass a modified copy to Render instead.
	Skills Dataset

	raw []byte
}

// DocumentError describes a document that cannot be decoded into a dataset.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid skills document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid skills document: %v", e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	doc, err := Parse(raw)
	if err != nil {
		var de *DocumentError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Parse decodes a document of the form {"metadata": {...}, "data": [...]}.
// Field types are checked against the document schema; required skill
// fields are left for the resolver to enforce.
func Parse(raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &DocumentError{Err: fmt.Errorf("malformed JSON")}
	}
	if err := validateDocument(raw); err != nil {
		return nil, &DocumentError{Err: err}
	}

	var body struct {
		Data Dataset `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &DocumentError{Err: err}
	}

	return &Document{Skills: body.Data, raw: raw}, nil
}

// LastUpdated returns metadata.lastUpdated, or "" when absent.
func (d *Document) LastUpdated() string {
	return gjson.GetBytes(d.raw, "metadata.lastUpdated").String()
}

// Render produces the document bytes for an updated dataset. Only appended
// exercises are spliced in. The result is laid out one value per line with
// the document's own indent unit, so a file in that layout (the
// JSON.stringify(data, null, 2) form) keeps its existing lines byte for
// byte. When anything was appended, metadata.lastUpdated is set to now.
// The boolean reports whether the document changed.
func (d *Document) Render(updated Dataset, now time.Time) ([]byte, bool, error) {
	if len(updated) != len(d.Skills) {
		return nil, false, fmt.Errorf("render: dataset has %d skills, document has %d", len(updated), len(d.Skills))
	}

	out := bytes.Clone(d.raw)
	changed := false

	for i, skill := range updated {
		orig := d.Skills[i]
		if skill.ID != orig.ID {
			return nil, false, fmt.Errorf("render: skill %d is %q, document has %q", i, skill.ID, orig.ID)
		}
		if len(skill.Exercises) < len(orig.Exercises) {
			return nil, false, fmt.Errorf("render: skill %q lost exercises (%d -> %d)", skill.ID, len(orig.Exercises), len(skill.Exercises))
		}
		added := skill.Exercises[len(orig.Exercises):]
		if len(added) == 0 {
			continue
		}

		var err error
		if orig.Exercises == nil {
			arr, encErr := encodeJSON(normalizeAll(added))
			if encErr != nil {
				return nil, false, fmt.Errorf("encode exercises for %q: %w", skill.ID, encErr)
			}
			out, err = sjson.SetRawBytes(out, fmt.Sprintf("data.%d.advancedExercises", i), arr)
			if err != nil {
				return nil, false, fmt.Errorf("splice exercises for %q: %w", skill.ID, err)
			}
		} else {
			for _, ex := range added {
				b, encErr := encodeJSON(ex.normalized())
				if encErr != nil {
					return nil, false, fmt.Errorf("encode exercise %q: %w", ex.ID, encErr)
				}
				out, err = sjson.SetRawBytes(out, fmt.Sprintf("data.%d.advancedExercises.-1", i), b)
				if err != nil {
					return nil, false, fmt.Errorf("splice exercise %q: %w", ex.ID, err)
				}
			}
		}
		changed = true
	}

	if !changed {
		return d.raw, false, nil
	}

	out, err := sjson.SetBytes(out, "metadata.lastUpdated", now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, false, fmt.Errorf("set lastUpdated: %w", err)
	}

	// Width 0 keeps arrays expanded; a non-zero width folds short arrays
	// onto one line.
	out = pretty.PrettyOptions(out, &pretty.Options{Width: 0, Indent: detectIndent(d.raw)})
	if !bytes.HasSuffix(d.raw, []byte("\n")) {
		out = bytes.TrimSuffix(out, []byte("\n"))
	}
	return out, true, nil
}

// detectIndent returns the leading whitespace of the first indented line,
// or two spaces for single-line documents.
func detectIndent(raw []byte) string {
	for _, line := range bytes.Split(raw, []byte("\n"))[1:] {
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 || len(trimmed) == len(line) {
			continue
		}
		return string(line[:len(line)-len(trimmed)])
	}
	return "  "
}

func normalizeAll(exs []Exercise) []Exercise {
	out := make([]Exercise, len(exs))
	for i, ex := range exs {
		out[i] = ex.normalized()
	}
	return out
}

// encodeJSON marshals v without HTML escaping; solution text routinely
// contains < and >.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
