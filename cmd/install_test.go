package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernel/devtools-installer/pkg/extensions"
	"github.com/kernel/devtools-installer/pkg/installer"
)

type FakeInstallService struct {
	InstallFunc func(ctx context.Context, refs []extensions.Reference, opts installer.InstallOptions) ([]string, error)
	gotRefs     []extensions.Reference
	gotOpts     installer.InstallOptions
}

func (f *FakeInstallService) Install(ctx context.Context, refs []extensions.Reference, opts installer.InstallOptions) ([]string, error) {
	f.gotRefs = refs
	f.gotOpts = opts
	if f.InstallFunc != nil {
		return f.InstallFunc(ctx, refs, opts)
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = "Name " + r.ID
	}
	return names, nil
}

func TestInstall_ResolvesNamesAndPrintsTable(t *testing.T) {
	setupStdoutCapture(t)

	fake := &FakeInstallService{}
	c := InstallCmd{installer: fake}

	err := c.Install(context.Background(), InstallInput{
		Extensions: []string{"react-developer-tools", "abcdefghijklmnopabcdefghijklmnop"},
		Force:      true,
		Attempts:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, []extensions.Reference{
		extensions.ReactDeveloperTools,
		{ID: "abcdefghijklmnopabcdefghijklmnop"},
	}, fake.gotRefs)
	assert.True(t, fake.gotOpts.ForceDownload)
	assert.Equal(t, 3, fake.gotOpts.Attempts)
	assert.Equal(t, installer.ProxyOption{}, fake.gotOpts.Proxy)

	out := outBuf.String()
	assert.Contains(t, out, "Name "+extensions.ReactDeveloperTools.ID)
	assert.Contains(t, out, "Installed 2 extension(s)")
}

func TestInstall_ProxyOption(t *testing.T) {
	tests := []struct {
		in   string
		want installer.ProxyOption
	}{
		{"", installer.ProxyOption{}},
		{"auto", installer.ProxyOption{Auto: true}},
		{"http://127.0.0.1:3128", installer.ProxyOption{URL: "http://127.0.0.1:3128"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			setupStdoutCapture(t)
			fake := &FakeInstallService{}
			c := InstallCmd{installer: fake}

			require.NoError(t, c.Install(context.Background(), InstallInput{Extensions: []string{"redux-devtools"}, Proxy: tt.in}))
			assert.Equal(t, tt.want, fake.gotOpts.Proxy)
		})
	}
}

func TestInstall_PartialFailure(t *testing.T) {
	setupStdoutCapture(t)

	fake := &FakeInstallService{
		InstallFunc: func(ctx context.Context, refs []extensions.Reference, opts installer.InstallOptions) ([]string, error) {
			return []string{"Ember Inspector"}, &installer.UsageError{Message: "Version of Electron: 1.0.0 does not match required range >=1.2.1"}
		},
	}
	c := InstallCmd{installer: fake}

	err := c.Install(context.Background(), InstallInput{Extensions: []string{"ember-inspector", "mobx-devtools"}})
	require.Error(t, err)

	out := outBuf.String()
	assert.Contains(t, out, "Ember Inspector")
	assert.Contains(t, out, "Failed to install "+extensions.MobXDevTools.ID)
	assert.NotContains(t, out, "Installed")
}

func TestInstall_JSONOutput(t *testing.T) {
	setupStdoutCapture(t)
	read := captureStdout(t)

	c := InstallCmd{installer: &FakeInstallService{}}
	err := c.Install(context.Background(), InstallInput{Extensions: []string{"vuejs-devtools"}, Output: "json"})
	require.NoError(t, err)

	var results []map[string]string
	require.NoError(t, json.Unmarshal([]byte(read()), &results))
	require.Len(t, results, 1)
	assert.Equal(t, extensions.VueJSDevTools.ID, results[0]["id"])
	assert.Empty(t, outBuf.String(), "json output prints nothing else")
}

func TestInstall_InvalidInput(t *testing.T) {
	c := InstallCmd{installer: &FakeInstallService{
		InstallFunc: func(context.Context, []extensions.Reference, installer.InstallOptions) ([]string, error) {
			return nil, errors.New("should not be called")
		},
	}}

	assert.ErrorContains(t, c.Install(context.Background(), InstallInput{Extensions: []string{"x"}, Output: "yaml"}), "unsupported --output")
	assert.ErrorContains(t, c.Install(context.Background(), InstallInput{}), "no extensions given")
}
