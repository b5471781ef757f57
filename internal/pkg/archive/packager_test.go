package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

func readEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = content
	}
	return entries
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Jane_Doe", SanitizeFilename("Jane Doe"))
	assert.Equal(t, "OBrien", SanitizeFilename("O'Brien"))
	assert.Equal(t, "Anne-Marie_Smith", SanitizeFilename("Anne-Marie Smith!"))
	assert.Equal(t, "Graduation_2025", SanitizeFilename("Graduation  2025"))
	assert.Equal(t, "", SanitizeFilename("日本語"))
	assert.Equal(t, "etcpasswd", SanitizeFilename("../etc/passwd"), "path separators are stripped")
}

func TestArchiveName(t *testing.T) {
	at := time.UnixMilli(1750000000000)
	assert.Equal(t, "certificates_Graduation_2025_1750000000000.zip", ArchiveName("Graduation 2025", at))
}

func TestPackRoundTrip(t *testing.T) {
	docs := []Document{
		{ParticipantName: "Jane Doe", PDF: []byte("%PDF-1.7 jane")},
		{ParticipantName: "Bob O'Brien", PDF: []byte("%PDF-1.7 bob")},
	}

	data, err := Pack(docs)
	require.NoError(t, err)

	entries := readEntries(t, data)
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("%PDF-1.7 jane"), entries["Jane_Doe_certificate.pdf"])
	assert.Equal(t, []byte("%PDF-1.7 bob"), entries["Bob_OBrien_certificate.pdf"])
}

func TestPackCollidingNamesLastWins(t *testing.T) {
	docs := []Document{
		{ParticipantName: "Jane Doe", PDF: []byte("first")},
		{ParticipantName: "Jane! Doe", PDF: []byte("second")},
	}

	data, err := Pack(docs)
	require.NoError(t, err)

	entries := readEntries(t, data)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("second"), entries["Jane_Doe_certificate.pdf"])
}

func TestPackPreservesOrder(t *testing.T) {
	var docs []Document
	for i := 0; i < 5; i++ {
		docs = append(docs, Document{
			ParticipantName: fmt.Sprintf("Person %d", i),
			PDF:             []byte("%PDF"),
		})
	}

	data, err := Pack(docs)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for i, f := range r.File {
		assert.Equal(t, fmt.Sprintf("Person_%d_certificate.pdf", i), f.Name)
	}
}

func TestPackRejectsEmptyInput(t *testing.T) {
	_, err := Pack(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, certerrors.ErrPackagingFailure)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	ref, err := store.Save(ctx, "certificates_Test_1.zip", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, "certificates_Test_1.zip", ref)

	data, err := store.Open(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Open(ctx, ref)
	assert.Equal(t, certerrors.KindRecordNotFound, certerrors.KindOf(err))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "../../../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, certerrors.KindRecordNotFound, certerrors.KindOf(err))
}
