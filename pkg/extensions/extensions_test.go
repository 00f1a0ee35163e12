package extensions

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownReferences(t *testing.T) {
	all := All()
	require.Len(t, all, 9)

	seen := map[string]bool{}
	for _, k := range all {
		assert.Len(t, k.ID, 32, k.Slug)
		assert.False(t, seen[k.ID], "duplicate id %s", k.ID)
		seen[k.ID] = true

		_, err := semver.NewConstraint(k.Electron)
		assert.NoError(t, err, k.Slug)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].ID = "changed"
	assert.Equal(t, EmberInspector.ID, All()[0].ID)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in     string
		wantID string
		ok     bool
	}{
		{"react-developer-tools", ReactDeveloperTools.ID, true},
		{"REACT_DEVELOPER_TOOLS", ReactDeveloperTools.ID, true},
		{" vuejs-devtools ", VueJSDevTools.ID, true},
		{"lmhkpmbekcpmknklioeibfkpmmfibljd", ReduxDevTools.ID, true},
		{"unknown-tool", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, ok := Lookup(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantID, k.ID)
		})
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, MobXDevTools, Parse("mobx-devtools"))
	assert.Equal(t, Reference{ID: "abcdefghijklmnopabcdefghijklmnop"}, Parse("abcdefghijklmnopabcdefghijklmnop"))
}
