package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// runWithArgs runs runMain with a substituted argument vector and restores
// the original afterwards.
func runWithArgs(t *testing.T, args ...string) int {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"lsp-core"}, args...)
	defer func() { os.Args = orig }()
	return runMain()
}

func TestRunMain_VersionExitsZero(t *testing.T) {
	assert.Equal(t, 0, runWithArgs(t, "version"))
}

func TestRunMain_UnknownCommandExitsOne(t *testing.T) {
	assert.Equal(t, 1, runWithArgs(t, "no-such-command"))
}

func TestRunMain_HelpExitsZero(t *testing.T) {
	assert.Equal(t, 0, runWithArgs(t, "--help"))
}

func TestRunMain_IndexMissingDatabaseFails(t *testing.T) {
	assert.Equal(t, 1, runWithArgs(t, "index"))
}
