// Package project discovers the name and version shown in a report's header.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// Info identifies the project under test
type Info struct {
	Name    string
	Version string
}

// Load reads project metadata from dir. A package.json (name and version) wins over
// a go.mod, whose module path gives the name. A directory with neither yields an
// empty Info.
func Load(dir string) (Info, error) {
	info, err := fromPackageJSON(filepath.Join(dir, "package.json"))
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Info{}, err
	}

	info, err = fromGoMod(filepath.Join(dir, "go.mod"))
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Info{}, err
	}
	return Info{}, nil
}

func fromPackageJSON(p string) (Info, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Info{}, err
	}
	var pkg struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return Info{}, fmt.Errorf("failed to parse %s: %w", p, err)
	}
	return Info{Name: pkg.Name, Version: pkg.Version}, nil
}

func fromGoMod(p string) (Info, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Info{}, err
	}
	modPath := modfile.ModulePath(data)
	if modPath == "" {
		return Info{}, fmt.Errorf("no module directive in %s", p)
	}
	return Info{Name: path.Base(modPath)}, nil
}
