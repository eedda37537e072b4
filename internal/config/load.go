package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	tomlName      = "vipyrdocs.toml"
	yamlName      = ".vipyrdocs.yaml"
	ymlName       = ".vipyrdocs.yml"
	pyprojectName = "pyproject.toml"
)

// candidates in priority order within one directory.
var candidates = []string{tomlName, yamlName, ymlName, pyprojectName}

// Find walks from start (a file or directory) up to the root and returns the
// first settings file. A pyproject.toml without [tool.vipyrdocs] is skipped.
func Find(start string) (string, error) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if st, err := os.Stat(dir); err == nil && !st.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range candidates {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
			if name == pyprojectName {
				ok, err := hasToolTable(candidate)
				if err != nil {
					return "", err
				}
				if !ok {
					continue
				}
			}
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotFound
}

// Discover finds and loads the settings for start; defaults when nothing is found.
func Discover(start string) (Config, error) {
	p, err := Find(start)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Load(p)
}

// Load decodes a settings file; the format follows the file name.
func Load(p string) (Config, error) {
	var (
		fc  fileConfig
		err error
	)
	switch base := filepath.Base(p); {
	case base == pyprojectName:
		err = decodePyproject(p, &fc)
	case strings.HasSuffix(base, ".yaml"), strings.HasSuffix(base, ".yml"):
		err = decodeYAML(p, &fc)
	default:
		err = decodeTOML(p, &fc)
	}
	if err != nil {
		return Config{}, err
	}
	return fc.resolve(p)
}

func decodeTOML(p string, fc *fileConfig) error {
	meta, err := toml.DecodeFile(p, fc)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", p, err)
	}
	return unknownKeys(p, meta.Undecoded(), "")
}

type pyproject struct {
	Tool struct {
		Vipyrdocs fileConfig `toml:"vipyrdocs"`
	} `toml:"tool"`
}

func decodePyproject(p string, fc *fileConfig) error {
	var doc pyproject
	meta, err := toml.DecodeFile(p, &doc)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", p, err)
	}
	if !meta.IsDefined("tool", "vipyrdocs") {
		return fmt.Errorf("%s: missing [tool.vipyrdocs]", p)
	}
	*fc = doc.Tool.Vipyrdocs
	// чужие таблицы pyproject.toml нас не касаются
	return unknownKeys(p, meta.Undecoded(), "tool.vipyrdocs.")
}

func unknownKeys(p string, undecoded []toml.Key, prefix string) error {
	var unknown []string
	for _, k := range undecoded {
		s := k.String()
		if prefix != "" && !strings.HasPrefix(s, prefix) {
			continue
		}
		unknown = append(unknown, strings.TrimPrefix(s, prefix))
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s: unknown keys: %s", p, strings.Join(unknown, ", "))
}

func hasToolTable(p string) (bool, error) {
	var doc map[string]any
	meta, err := toml.DecodeFile(p, &doc)
	if err != nil {
		return false, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
	}
	return meta.IsDefined("tool", "vipyrdocs"), nil
}

func decodeYAML(p string, fc *fileConfig) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil {
		if errors.Is(err, io.EOF) {
			// пустой файл - значения по умолчанию
			return nil
		}
		return fmt.Errorf("%s: failed to parse YAML: %w", p, err)
	}
	return nil
}
