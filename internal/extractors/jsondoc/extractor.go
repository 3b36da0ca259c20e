package jsondoc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// maxDepth bounds flattening of deeply nested values. Anything below
// this depth is rendered as its compact JSON encoding instead.
const maxDepth = 10

// Extractor handles JSON documents by flattening them into
// "key.path: value" lines.
type Extractor struct{}

// New creates a new JSON extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatJSON}
}

// Extract flattens the JSON document into one line per leaf value.
// Object keys are joined with dots and array elements indexed, so
// "users[0].name: Alice" keeps its full path when segmented.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawFile) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidArgument
	}

	var value any
	if err := json.Unmarshal(raw.Content, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}

	var lines []string
	flatten("", value, 0, &lines)

	return &driven.ExtractResult{
		Text: strings.Join(lines, "\n"),
	}, nil
}

// flatten walks the decoded value, appending one line per leaf.
func flatten(path string, value any, depth int, lines *[]string) {
	if depth >= maxDepth {
		*lines = append(*lines, leaf(path, compact(value)))
		return
	}

	switch v := value.(type) {
	case map[string]any:
		if len(v) == 0 {
			*lines = append(*lines, leaf(path, "{}"))
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(childPath(path, k), v[k], depth+1, lines)
		}
	case []any:
		if len(v) == 0 {
			*lines = append(*lines, leaf(path, "[]"))
			return
		}
		for i, item := range v {
			flatten(path+"["+strconv.Itoa(i)+"]", item, depth+1, lines)
		}
	case string:
		*lines = append(*lines, leaf(path, v))
	case float64:
		*lines = append(*lines, leaf(path, strconv.FormatFloat(v, 'f', -1, 64)))
	case bool:
		*lines = append(*lines, leaf(path, strconv.FormatBool(v)))
	case nil:
		*lines = append(*lines, leaf(path, "null"))
	}
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func leaf(path, value string) string {
	if path == "" {
		return value
	}
	return path + ": " + value
}

// compact renders a value as its JSON encoding for depth-capped nodes.
func compact(value any) string {
	b, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(b)
}
