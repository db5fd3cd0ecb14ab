// Package guide serves the embedded documentation pages shown by the guide
// command and the MCP guide tool.
package guide

import (
	"embed"
	"runtime"
)

//go:embed *.md
var files embed.FS

// Get returns a guide page by name, defaulting to the main "guide" page.
// "install" resolves to the page for the running OS.
func Get(name string) (string, error) {
	if name == "" {
		name = "guide"
	}
	if name == "install" {
		name = "install-" + runtime.GOOS
	}
	data, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the page names available beyond the main guide, without
// their .md suffix.
func List() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if n := e.Name(); n != "guide.md" {
			names = append(names, n[:len(n)-3])
		}
	}
	return names, nil
}
