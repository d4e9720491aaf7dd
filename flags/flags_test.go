package flags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestUniqueFlags asserts that all flag names are unique, to avoid accidental conflicts between the many flags.
func TestUniqueFlags(t *testing.T) {
	for _, set := range [][]cli.Flag{Flags, ServeFlags} {
		seen := make(map[string]struct{})
		for _, flag := range set {
			for _, name := range flag.Names() {
				if _, ok := seen[name]; ok {
					require.FailNowf(t, "duplicate flag", "flag %s is defined more than once", name)
				}
				seen[name] = struct{}{}
			}
		}
	}
}

// TestCorrectEnvVarPrefix asserts that all flags have the correct env var prefix.
func TestCorrectEnvVarPrefix(t *testing.T) {
	for _, flag := range append(Flags, ServeFlags...) {
		envFlag, ok := flag.(interface{ GetEnvVars() []string })
		if !ok {
			continue
		}
		for _, envVar := range envFlag.GetEnvVars() {
			if !strings.HasPrefix(envVar, EnvVarPrefix+"_") {
				t.Errorf("Flag %v env var (%v) does not start with %s_", flag.Names(), envVar, EnvVarPrefix)
			}
		}
	}
}
