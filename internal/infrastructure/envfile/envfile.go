// Package envfile reads and materializes KEY=VALUE configuration files.
package envfile

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/reviewassist/reviewctl/internal/domain"
)

// Parse reads a KEY=VALUE document. Blank lines and #-comments are
// skipped, a leading "export " is tolerated, and matching single or
// double quotes around a value are stripped. Duplicate keys keep their
// first position but the last value wins.
func Parse(data []byte) (*domain.EnvFile, error) {
	file := &domain.EnvFile{Values: make(map[string]string)}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: not a KEY=VALUE pair", lineNo)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}

		if !file.Has(key) {
			file.Keys = append(file.Keys, key)
		}
		file.Values[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return file, nil
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
