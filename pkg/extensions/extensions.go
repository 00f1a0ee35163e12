// Package extensions lists popular developer tool extensions and the host
// versions they are known to work with.
package extensions

import (
	"strings"

	"github.com/samber/lo"
)

// Reference identifies a store extension. Electron is a semver range the
// host version must satisfy; an empty range skips the check.
type Reference struct {
	ID       string `json:"id"`
	Electron string `json:"electron,omitempty"`
	Version  string `json:"version,omitempty"`
}

var (
	EmberInspector = Reference{
		ID:       "bmdblncegkenkacieihfhpjfppoconhi",
		Electron: ">=1.2.1",
		Version:  "4.9.1",
	}
	ReactDeveloperTools = Reference{
		ID:       "fmkadmapgofadopljbjfkapdkoienihi",
		Electron: ">=1.2.1",
		Version:  "4.24.7",
	}
	BackboneDebugger = Reference{
		ID:       "bhljhndlimiafopmmhjlgfpnnchjjbhd",
		Electron: ">=1.2.1",
		Version:  "0.4.1",
	}
	JQueryDebugger = Reference{
		ID:       "dbhhnnnpaeobfddmlalhnehgclcmjimi",
		Electron: ">=1.2.1",
		Version:  "0.1.3.2",
	}
	AngularDevTools = Reference{
		ID:       "ienfalfjdbdpebioblfackkekamfmbnh",
		Electron: ">=1.2.1",
		Version:  "1.0.7",
	}
	VueJSDevTools = Reference{
		ID:       "nhdogjmejiglipccpnnnanhbledajbpd",
		Electron: ">=1.2.1",
		Version:  "6.5.0",
	}
	ReduxDevTools = Reference{
		ID:       "lmhkpmbekcpmknklioeibfkpmmfibljd",
		Electron: ">=1.2.1",
		Version:  "3.0.19",
	}
	ApolloDeveloperTools = Reference{
		ID:       "jdkknkkbebbapilgoeccciglkfbmbnfm",
		Electron: ">=1.2.1",
		Version:  "4.1.4",
	}
	MobXDevTools = Reference{
		ID:       "pfgnfdagidkfgccljigdamigbcnndkod",
		Electron: ">=1.2.1",
		Version:  "0.9.26",
	}
)

// Known is a well-known extension with a command line friendly slug.
type Known struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Reference
}

var known = []Known{
	{Slug: "ember-inspector", Name: "Ember Inspector", Reference: EmberInspector},
	{Slug: "react-developer-tools", Name: "React Developer Tools", Reference: ReactDeveloperTools},
	{Slug: "backbone-debugger", Name: "Backbone Debugger", Reference: BackboneDebugger},
	{Slug: "jquery-debugger", Name: "jQuery Debugger", Reference: JQueryDebugger},
	{Slug: "angular-devtools", Name: "Angular DevTools", Reference: AngularDevTools},
	{Slug: "vuejs-devtools", Name: "Vue.js devtools", Reference: VueJSDevTools},
	{Slug: "redux-devtools", Name: "Redux DevTools", Reference: ReduxDevTools},
	{Slug: "apollo-developer-tools", Name: "Apollo Client Devtools", Reference: ApolloDeveloperTools},
	{Slug: "mobx-devtools", Name: "MobX Developer Tools", Reference: MobXDevTools},
}

// All returns the well-known extensions in display order.
func All() []Known {
	out := make([]Known, len(known))
	copy(out, known)
	return out
}

// Lookup finds a well-known extension by slug or store id. Slugs match
// case-insensitively and accept underscores for dashes, so REACT_DEVELOPER_TOOLS
// works too.
func Lookup(s string) (Known, bool) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	return lo.Find(known, func(k Known) bool {
		return k.Slug == norm || k.ID == strings.TrimSpace(s)
	})
}

// Parse resolves s to a Reference. Unknown strings are taken as raw store
// ids with no host version requirement.
func Parse(s string) Reference {
	if k, ok := Lookup(s); ok {
		return k.Reference
	}
	return Reference{ID: strings.TrimSpace(s)}
}
