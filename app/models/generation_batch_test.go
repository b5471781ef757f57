package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationBatch_Complete(t *testing.T) {
	b := &GenerationBatch{Status: BatchStatusProcessing, ParticipantCount: 2}

	require.NoError(t, b.Complete("downloads/archive.zip"))
	assert.Equal(t, BatchStatusCompleted, b.Status)
	assert.Equal(t, "downloads/archive.zip", b.ArchiveRef)
	require.NotNil(t, b.CompletedAt)
	assert.True(t, b.IsTerminal())
}

func TestGenerationBatch_Fail(t *testing.T) {
	b := &GenerationBatch{Status: BatchStatusProcessing, ArchiveRef: "stale"}

	require.NoError(t, b.Fail())
	assert.Equal(t, BatchStatusFailed, b.Status)
	assert.Empty(t, b.ArchiveRef, "failed batches never carry an archive")
	assert.True(t, b.IsTerminal())
}

func TestGenerationBatch_TerminalStatesAreImmutable(t *testing.T) {
	completed := &GenerationBatch{Status: BatchStatusCompleted}
	assert.ErrorIs(t, completed.Fail(), ErrBatchTerminal)
	assert.ErrorIs(t, completed.Complete("x"), ErrBatchTerminal)

	failed := &GenerationBatch{Status: BatchStatusFailed}
	assert.ErrorIs(t, failed.Complete("x"), ErrBatchTerminal)
	assert.ErrorIs(t, failed.Fail(), ErrBatchTerminal)
}

func TestCertificate_Revoke(t *testing.T) {
	c := &Certificate{Active: true}
	c.Revoke()
	assert.False(t, c.Active)
}
