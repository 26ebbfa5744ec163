package envfile

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// source labels shown when a field is resolved without prompting
const (
	SourceShell = "shell"
)

// Source is a named, ordered provider of credential field values
type Source struct {
	Name   string
	Values map[string]string
}

// ShellSource builds a source from the process environment, limited
// to variables matching the provided name prefixes
func ShellSource(environ []string, prefixes []string) Source {
	values := map[string]string{}
	for _, entry := range environ {
		idx := strings.Index(entry, "=")
		if idx <= 0 {
			continue
		}
		key := entry[:idx]
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				values[key] = entry[idx+1:]
				break
			}
		}
	}
	return Source{SourceShell, values}
}

// FileSource builds a source from the env file at the provided path
//
// A missing or unreadable file yields a source with no values
func FileSource(fs afero.Fs, name, path string) Source {
	values, err := Load(fs, path)
	if err != nil {
		return Source{name, map[string]string{}}
	}
	return Source{name, values}
}

// Merge flattens the provided sources into a single mapping
//
// Sources are ordered by priority; merging iterates in reverse so a
// later write never overrides an earlier, higher-priority one
func Merge(sources []Source) map[string]string {
	merged := map[string]string{}
	for i := len(sources) - 1; i >= 0; i-- {
		for key, value := range sources[i].Values {
			merged[key] = value
		}
	}
	return merged
}

// Lookup scans the sources in priority order for a non-empty value
// of the named field, returning the value and its source label
func Lookup(sources []Source, field string) (string, string, bool) {
	for _, source := range sources {
		if value := source.Values[field]; value != "" {
			return value, source.Name, true
		}
	}
	return "", "", false
}

// Resolver discovers the ordered credential sources for a run
type Resolver struct {
	fs       afero.Fs
	environ  []string
	homeDir  string
	repoDir  string
	prefixes []string
}

// NewResolver creates a new source resolver
func NewResolver(fs afero.Fs, environ []string, homeDir, repoDir string, prefixes []string) Resolver {
	return Resolver{fs, environ, homeDir, repoDir, prefixes}
}

// EnvFilePath is the primary on-disk configuration file
func (r Resolver) EnvFilePath() string {
	return filepath.Join(r.homeDir, ".env")
}

// SiblingEnvFilePath is the secondary secrets file of the sibling
// assistant-skills-library checkout, if one exists next to the repo
func (r Resolver) SiblingEnvFilePath() string {
	return filepath.Join(r.repoDir, "..", "assistant-skills-library", ".env")
}

// Sources returns the credential sources in priority order: process
// environment first, then the primary env file, then the sibling
// project's env file
//
// File-backed sources that yield no entries are omitted entirely
func (r Resolver) Sources() []Source {
	sources := []Source{ShellSource(r.environ, r.prefixes)}

	for _, file := range []struct {
		name string
		path string
	}{
		{"~/.env", r.EnvFilePath()},
		{"assistant-skills-library/.env", r.SiblingEnvFilePath()},
	} {
		source := FileSource(r.fs, file.name, file.path)
		if len(source.Values) == 0 {
			continue
		}
		sources = append(sources, source)
	}
	return sources
}
