//go:build !aspectwrap_noaspect && !aspectwrap_nointercept

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/aspectwrap/provider"
)

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"version"}, &out))
	assert.Equal(t, "dev\n", out.String())
}

func TestRun_Detect(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"detect", "--config-dir", t.TempDir()}, &out))

	got := out.String()
	assert.Contains(t, got, "MECHANISM")
	assert.Contains(t, got, "provider.AspectProvider")
	assert.Contains(t, got, "selected: aspect")
}

func TestRun_DetectHonorsConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aspectwrap.yml"), []byte("disable: [aspect]\nlogLevel: error\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"detect", "--config-dir", dir}, &out))
	assert.Contains(t, out.String(), "selected: intercepting")
}

func TestRun_DetectNoFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aspectwrap.yml"), []byte("disable: [aspect, intercepting]\nlogLevel: error\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"detect", "--config-dir", dir}, &out))
	assert.Contains(t, out.String(), "selected: null")

	out.Reset()
	err := run([]string{"detect", "--config-dir", dir, "--no-fallback"}, &out)
	require.ErrorIs(t, err, provider.ErrNoMechanism)
}

func TestRun_DetectBadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aspectwrap.yml"), []byte("logLevel: loud\n"), 0644))

	err := run([]string{"detect", "--config-dir", dir}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run([]string{"frobnicate"}, &bytes.Buffer{})
	require.Error(t, err)
}
