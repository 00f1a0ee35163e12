package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernel/devtools-installer/pkg/host"
)

type FakeLaunchProfile struct {
	Extensions []host.Extension
}

func (f *FakeLaunchProfile) GetAllExtensions(context.Context) ([]host.Extension, error) {
	return f.Extensions, nil
}

func (f *FakeLaunchProfile) LaunchFlags() []string {
	if len(f.Extensions) == 0 {
		return nil
	}
	return []string{"--load-extension=/cache/a", "--disable-extensions-except=/cache/a"}
}

func TestFlags_PrintsOnePerLine(t *testing.T) {
	setupStdoutCapture(t)
	read := captureStdout(t)

	c := FlagsCmd{profile: &FakeLaunchProfile{Extensions: []host.Extension{{ID: "a", Name: "A", Path: "/cache/a"}}}}
	require.NoError(t, c.Flags(context.Background(), FlagsInput{}))

	assert.Equal(t, "--load-extension=/cache/a\n--disable-extensions-except=/cache/a\n", read())
}

func TestFlags_Empty(t *testing.T) {
	setupStdoutCapture(t)

	c := FlagsCmd{profile: &FakeLaunchProfile{}}
	require.NoError(t, c.Flags(context.Background(), FlagsInput{}))

	assert.Contains(t, outBuf.String(), "No extensions installed")
}

func TestFlags_JSON(t *testing.T) {
	setupStdoutCapture(t)
	read := captureStdout(t)

	c := FlagsCmd{profile: &FakeLaunchProfile{}}
	require.NoError(t, c.Flags(context.Background(), FlagsInput{Output: "json"}))

	var got flagsOutput
	require.NoError(t, json.Unmarshal([]byte(read()), &got))
	assert.Empty(t, got.Flags)
	assert.Empty(t, got.Extensions)
}
