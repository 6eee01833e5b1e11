// Package config reads the optional tf.yml project manifest: a small YAML
// file that names default compile options and a list of source files.
// There is no cross-file resolution here. tfc applies the skipTypeCheck and
// outDir defaults to the single input named on its command line; the file
// list is parsed and validated, but tfc does not compile it.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed, validated contents of a tf.yml file.
type Manifest struct {
	Path          string
	SkipTypeCheck bool
	OutDir        string
	Files         []string
}

// ManifestFileName is the fixed name tfc looks for in the directory of the
// input source file.
const ManifestFileName = "tf.yml"

// Load parses and validates a tf.yml manifest at path.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: %s is empty", absPath)
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// LoadFromDir looks for tf.yml inside dir and returns (nil, nil) if it
// doesn't exist — the manifest is always optional.
func LoadFromDir(dir string) (*Manifest, error) {
	candidate := filepath.Join(dir, ManifestFileName)
	if _, err := os.Stat(candidate); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: stat %s: %w", candidate, err)
	}
	return Load(candidate)
}

func (m *Manifest) validate() error {
	var issues []string
	for i, f := range m.Files {
		if strings.TrimSpace(f) == "" {
			issues = append(issues, fmt.Sprintf("files[%d] must be a non-empty path", i))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid tf.yml"
	}
	var b strings.Builder
	b.WriteString("tf.yml validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type manifestFile struct {
	SkipTypeCheck bool       `yaml:"skipTypeCheck"`
	OutDir        string     `yaml:"outDir"`
	Files         stringList `yaml:"files"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	return &Manifest{
		Path:          path,
		SkipTypeCheck: mf.SkipTypeCheck,
		OutDir:        strings.TrimSpace(mf.OutDir),
		Files:         mf.Files.Clone(),
	}
}

// stringList decodes either a single scalar path or a YAML sequence of
// paths into the same []string, so a one-file manifest doesn't need to be
// written as a one-element list.
type stringList []string

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("config: expected string or sequence for files but found %s", value.ShortTag())
	}
}
