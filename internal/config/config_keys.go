// config_keys.go maps dotted string keys ("patch.max_passes") onto the
// Config struct for the CLI and MCP config tools.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys lists every settable configuration key.
func ValidKeys() []string {
	return []string{
		"author.name", "author.email",
		"sync.files",
		"limits.max_path", "limits.max_content", "limits.max_line_length", "limits.max_batch_edits",
		"patch.max_passes",
	}
}

// IsValidKey reports whether key is one of ValidKeys.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns a key's effective value as a string, defaults included.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "author.email":
		return c.Author.Email, nil
	case "sync.files":
		return strconv.FormatBool(c.SyncFiles()), nil
	case "limits.max_path":
		return strconv.Itoa(c.MaxPath()), nil
	case "limits.max_content":
		return strconv.FormatInt(c.MaxContent(), 10), nil
	case "limits.max_line_length":
		return strconv.Itoa(c.MaxLineLength()), nil
	case "limits.max_batch_edits":
		return strconv.Itoa(c.MaxBatchEdits()), nil
	case "patch.max_passes":
		return strconv.Itoa(c.MaxPasses()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidValue, key)
	}
	return n, nil
}

// Set parses value and stores it under key. Numeric keys require a
// positive integer; Validate still applies the upper bounds afterwards.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "author.email":
		c.Author.Email = value
	case "sync.files":
		v := strings.ToLower(value)
		if v != "true" && v != "false" {
			return fmt.Errorf("%w: sync.files must be true or false", ErrInvalidValue)
		}
		b := v == "true"
		c.Sync.Files = &b
	case "limits.max_path":
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		c.Limits.MaxPath = &n
	case "limits.max_content":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: limits.max_content must be a positive integer", ErrInvalidValue)
		}
		c.Limits.MaxContent = &n
	case "limits.max_line_length":
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		c.Limits.MaxLineLength = &n
	case "limits.max_batch_edits":
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		c.Limits.MaxBatchEdits = &n
	case "patch.max_passes":
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		c.Patch.MaxPasses = &n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns every key's effective value.
func (c *Config) All() map[string]string {
	return map[string]string{
		"author.name":            c.Author.Name,
		"author.email":           c.Author.Email,
		"sync.files":             strconv.FormatBool(c.SyncFiles()),
		"limits.max_path":        strconv.Itoa(c.MaxPath()),
		"limits.max_content":     strconv.FormatInt(c.MaxContent(), 10),
		"limits.max_line_length": strconv.Itoa(c.MaxLineLength()),
		"limits.max_batch_edits": strconv.Itoa(c.MaxBatchEdits()),
		"patch.max_passes":       strconv.Itoa(c.MaxPasses()),
	}
}

// IsSet reports whether key was set explicitly rather than defaulted.
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	case "sync.files":
		return c.Sync.Files != nil
	case "limits.max_path":
		return c.Limits.MaxPath != nil
	case "limits.max_content":
		return c.Limits.MaxContent != nil
	case "limits.max_line_length":
		return c.Limits.MaxLineLength != nil
	case "limits.max_batch_edits":
		return c.Limits.MaxBatchEdits != nil
	case "patch.max_passes":
		return c.Patch.MaxPasses != nil
	default:
		return false
	}
}
