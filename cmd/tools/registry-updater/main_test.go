package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyRegistry(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../../configs/activity-registry.json")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	path := copyRegistry(t)

	out, err := run(t, "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "recommend-property")
	assert.Contains(t, out, "DATABASE_INSERT_FAILED")

	out, err = run(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 activities")

	out, err = run(t, "set-status", "record-recommendation", "verified", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "status to verified")

	out, err = run(t, "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "verified")

	_, err = run(t, "set-status", "record-recommendation", "finished", "--path", path)
	assert.Error(t, err)

	_, err = run(t, "set-status", "only-one-arg", "--path", path)
	assert.Error(t, err)
}
