package knowledge

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// fsSource reads one YAML file per table; the file name without extension is
// the table name.
type fsSource struct {
	name string
	fsys fs.FS
	root string
}

// NewEmbeddedSource reads the tables compiled into the binary.
func NewEmbeddedSource() Source {
	return &fsSource{name: "embedded", fsys: defaults, root: "defaults"}
}

// NewDirSource reads *.yaml and *.yml files from dir.
func NewDirSource(dir string) Source {
	return &fsSource{name: "dir:" + dir, fsys: os.DirFS(dir), root: "."}
}

func (s *fsSource) Name() string {
	return s.name
}

func (s *fsSource) Read(ctx context.Context) (map[string]Table, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := fs.ReadDir(s.fsys, s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.name, err)
	}

	tables := make(map[string]Table)
	for _, entry := range entries {
		name, ok := tableName(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		data, err := fs.ReadFile(s.fsys, path.Join(s.root, entry.Name()))
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to read knowledge file")
			continue
		}
		t, err := decodeTable(data)
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to parse knowledge file")
			continue
		}
		tables[name] = t
	}
	return tables, nil
}

func tableName(file string) (string, bool) {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(file, ext) {
			return strings.TrimSuffix(file, ext), true
		}
	}
	return "", false
}

func decodeTable(data []byte) (Table, error) {
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}
	return t, nil
}
