package reporting

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// Asset names looked up for every report
const (
	AssetIndex    = "index.tmpl"
	AssetFeatures = "features.tmpl"
	AssetStyles   = "style.css"
	AssetScript   = "script.js"
	AssetPiechart = "piechart.js"
)

// ThemeBootstrap is the only theme that ships the pie chart script
const ThemeBootstrap = "bootstrap"

//go:embed templates
var bundledFS embed.FS

// AssetReader returns the text of a named report asset
type AssetReader interface {
	ReadAsset(name string) (string, error)
}

// AssetRoot is one candidate location for report assets
type AssetRoot struct {
	// Location is used in log and error messages
	Location string
	FS       fs.FS
}

var _ AssetReader = (*AssetResolver)(nil)

// AssetResolver looks every asset up in an ordered list of roots. Each asset
// falls back independently, so an override directory may replace only some files.
type AssetResolver struct {
	roots []AssetRoot
}

// NewAssetResolver builds a resolver checking templateDir (when set) before the
// bundled assets of theme
func NewAssetResolver(templateDir, theme string) *AssetResolver {
	var roots []AssetRoot
	if templateDir != "" {
		roots = append(roots, AssetRoot{Location: templateDir, FS: os.DirFS(templateDir)})
	}
	roots = append(roots, BundledTheme(theme))
	return &AssetResolver{roots: roots}
}

// NewAssetResolverWithRoots builds a resolver over explicit roots, highest priority first
func NewAssetResolverWithRoots(roots ...AssetRoot) *AssetResolver {
	return &AssetResolver{roots: roots}
}

// BundledTheme returns the embedded asset root for a theme. Unknown themes yield
// a root in which every lookup fails.
func BundledTheme(theme string) AssetRoot {
	dir := path.Join("templates", theme)
	sub, err := fs.Sub(bundledFS, dir)
	if err != nil {
		// fs.Sub only fails on invalid paths
		sub = emptyFS{}
	}
	return AssetRoot{Location: "bundled:" + dir, FS: sub}
}

// Resolve returns the first root that holds name
func (r *AssetResolver) Resolve(name string) (AssetRoot, error) {
	if !fs.ValidPath(name) {
		return AssetRoot{}, types.NewAssetError(name, "", fmt.Errorf("invalid asset name"))
	}
	for _, root := range r.roots {
		info, err := fs.Stat(root.FS, name)
		if err == nil && !info.IsDir() {
			return root, nil
		}
	}
	return AssetRoot{}, types.NewAssetError(name, r.lastLocation(name), fs.ErrNotExist)
}

// ReadAsset resolves and reads name
func (r *AssetResolver) ReadAsset(name string) (string, error) {
	root, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	data, err := fs.ReadFile(root.FS, name)
	if err != nil {
		return "", types.NewAssetError(name, filepath.Join(root.Location, name), err)
	}
	return string(data), nil
}

func (r *AssetResolver) lastLocation(name string) string {
	if len(r.roots) == 0 {
		return ""
	}
	return filepath.Join(r.roots[len(r.roots)-1].Location, name)
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: errors.New("no such theme")}
}
