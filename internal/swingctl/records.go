package swingctl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/okian/swingiq/internal/domain/model"
)

// Entry is one record read from disk together with where it came from.
type Entry struct {
	Origin string // path, suffixed with #n for multi-record files
	Record model.SwingRecord
}

// LoadRecords expands pattern (doublestar syntax, e.g. "swings/**/*.yaml")
// and decodes every matching JSON or YAML file. A file may hold a single
// record or a list; YAML files may also hold several documents.
func LoadRecords(pattern string) ([]Entry, error) {
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecords, pattern)
	}
	sort.Strings(paths)

	var out []Entry
	for _, p := range paths {
		recs, err := readFile(p)
		if err != nil {
			return nil, err
		}
		for i, r := range recs {
			origin := p
			if len(recs) > 1 {
				origin = fmt.Sprintf("%s#%d", p, i)
			}
			out = append(out, Entry{Origin: origin, Record: r})
		}
	}
	return out, nil
}

func readFile(path string) ([]model.SwingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var recs []model.SwingRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		recs, err = decodeJSON(data)
	case ".yaml", ".yml":
		recs, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return recs, nil
}

func decodeJSON(data []byte) ([]model.SwingRecord, error) {
	data = bytes.TrimSpace(data)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if bytes.HasPrefix(data, []byte("[")) {
		var recs []model.SwingRecord
		if err := dec.Decode(&recs); err != nil {
			return nil, err
		}
		return recs, nil
	}
	var r model.SwingRecord
	if err := dec.Decode(&r); err != nil {
		return nil, err
	}
	return []model.SwingRecord{r}, nil
}

func decodeYAML(data []byte) ([]model.SwingRecord, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var recs []model.SwingRecord
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		if len(doc.Content) == 0 {
			continue
		}
		if doc.Content[0].Kind == yaml.SequenceNode {
			var list []model.SwingRecord
			if err := doc.Decode(&list); err != nil {
				return nil, err
			}
			recs = append(recs, list...)
			continue
		}
		var r model.SwingRecord
		if err := doc.Decode(&r); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
}
