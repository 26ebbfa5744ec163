// Package envfile reads and writes the KEY=value credential files
// shared by the assistant skills tooling.
//
// Values may be shell command substitutions (e.g. a keychain lookup
// wrapped in "$(...)"); they are carried as opaque strings and are
// never interpreted or executed here.
package envfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Parse reads KEY=value lines from the provided reader
//
// Blank lines and '#' comments are skipped, a leading "export " is
// tolerated, and matching surrounding quotes are stripped
func Parse(r io.Reader) (map[string]string, error) {
	values := map[string]string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		values[key] = unquote(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// Format renders the provided values as KEY=value lines sorted by key
func Format(values map[string]string) []byte {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buf := new(bytes.Buffer)
	for _, key := range keys {
		fmt.Fprintf(buf, "%s=%s\n", key, values[key])
	}
	return buf.Bytes()
}

// Load reads the env file at the provided path, returning an empty
// map if the file does not exist
func Load(fs afero.Fs, path string) (map[string]string, error) {
	exists, existsErr := afero.Exists(fs, path)
	if existsErr != nil {
		return nil, existsErr
	}
	if !exists {
		return map[string]string{}, nil
	}

	raw, readErr := afero.ReadFile(fs, path)
	if readErr != nil {
		return nil, readErr
	}
	return Parse(bytes.NewReader(raw))
}

// IsCommandRef reports whether the value is a shell command
// substitution, typically a keychain lookup stored in place of a
// plaintext secret
func IsCommandRef(value string) bool {
	return strings.HasPrefix(value, "$(") && strings.HasSuffix(value, ")")
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	if value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	if value[0] == '\'' && value[len(value)-1] == '\'' {
		return value[1 : len(value)-1]
	}
	return value
}
