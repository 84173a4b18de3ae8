package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile flattens a YAML file into environment variables. Variables
// already present in the environment are left untouched.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	vars, err := Flatten(file)
	if err != nil {
		return err
	}

	for _, kv := range vars {
		if _, set := os.LookupEnv(kv.Key); set {
			continue
		}
		if err := os.Setenv(kv.Key, kv.Value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", kv.Key, err)
		}
	}
	return nil
}

type KeyValue struct {
	Key   string
	Value string
}

// Flatten turns nested mappings into SECTION_KEY=value pairs in file order.
// It understands the subset of YAML used by config files: nested mappings,
// scalar values, quotes, comments and ${VAR:-default} substitution.
// Sequences and multi-line scalars are skipped.
func Flatten(r io.Reader) ([]KeyValue, error) {
	type level struct {
		indent int
		name   string
	}

	var (
		stack []level
		out   []KeyValue
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		content := strings.TrimSpace(line)
		if content == "" || strings.HasPrefix(content, "#") || strings.HasPrefix(content, "- ") || content == "---" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripComment(strings.TrimSpace(value))

		if value == "" {
			stack = append(stack, level{indent: indent, name: key})
			continue
		}
		if value == "|" || value == ">" {
			continue
		}

		parts := make([]string, 0, len(stack)+1)
		for _, l := range stack {
			parts = append(parts, l.name)
		}
		parts = append(parts, key)

		out = append(out, KeyValue{
			Key:   strings.ToUpper(strings.Join(parts, "_")),
			Value: substitute(unquote(value)),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}
	return out, nil
}

// stripComment drops a trailing " # comment" outside of quotes.
func stripComment(v string) string {
	if v == "" || v[0] == '"' || v[0] == '\'' {
		return v
	}
	if i := strings.Index(v, " #"); i >= 0 {
		return strings.TrimSpace(v[:i])
	}
	return v
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// substitute resolves ${VAR} and ${VAR:-default}.
func substitute(v string) string {
	if !strings.HasPrefix(v, "${") || !strings.HasSuffix(v, "}") {
		return v
	}
	name, def, _ := strings.Cut(v[2:len(v)-1], ":-")
	if env := os.Getenv(strings.TrimSpace(name)); env != "" {
		return env
	}
	return strings.TrimSpace(def)
}
