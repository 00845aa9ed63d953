package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Run_WithMemoryBackend(t *testing.T) {
	// setup
	var out bytes.Buffer
	suite := "run-" + uuid.NewString()

	// act
	err := run(context.Background(), []string{"-suite", suite}, &out)

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "loaded: theme=light font.size=13")
	assert.Contains(t, out.String(), "changed: theme=dark")
	assert.Contains(t, out.String(), "recent files: [notes.md]")
}

func Test_Run_RemembersChangesPerSuite(t *testing.T) {
	// setup
	suite := "run-" + uuid.NewString()
	require.NoError(t, run(context.Background(), []string{"-suite", suite}, &bytes.Buffer{}))
	var out bytes.Buffer

	// act
	err := run(context.Background(), []string{"-suite", suite}, &out)

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "loaded: theme=dark")
}

func Test_ParseFlags(t *testing.T) {
	// act
	cfg, err := parseFlags([]string{"-backend", "postgres", "-debug"})
	_, unknownErr := parseFlags([]string{"-backend", "redis"})

	// assert
	require.NoError(t, err)
	assert.Equal(t, backendPostgres, cfg.Backend)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.ObservabilityEnabled)
	assert.Error(t, unknownErr)
}
