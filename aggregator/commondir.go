package aggregator

import "strings"

// CommonDir returns the longest directory prefix shared by all paths, including
// its trailing slash. Only whole directory components are compared, so the file
// name of a single path never becomes part of the root. Backslashes are treated
// as separators. An empty string is returned when the paths share no directory.
func CommonDir(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	common := dirComponents(paths[0])
	for _, p := range paths[1:] {
		parts := dirComponents(p)
		n := min(len(common), len(parts))
		i := 0
		for i < n && common[i] == parts[i] {
			i++
		}
		common = common[:i]
		if len(common) == 0 {
			return ""
		}
	}
	if len(common) == 0 {
		return ""
	}
	// Components keep their original separators, so the prefix slices the
	// original uri cleanly.
	return strings.Join(common, "")
}

// dirComponents splits a path into its directory components, each keeping its
// trailing separator. The final (file) component is dropped.
func dirComponents(p string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' || p[i] == '\\' {
			parts = append(parts, p[start:i+1])
			start = i + 1
		}
	}
	return parts
}

// RelativeFolder strips root from uri
func RelativeFolder(uri, root string) string {
	return strings.TrimPrefix(uri, root)
}
