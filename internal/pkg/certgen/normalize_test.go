package certgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

func TestNormalizeParticipants(t *testing.T) {
	assert.Equal(t, []string{"Ann", "Bob"},
		NormalizeParticipants([]string{"Ann", "ann ", "Bob"}),
		"trimming happens before dedup but comparison stays case sensitive")

	assert.Equal(t, []string{"Ann", "ann"},
		NormalizeParticipants([]string{"Ann", "ann"}))

	assert.Equal(t, []string{"Jane Doe"},
		NormalizeParticipants([]string{"  Jane Doe  ", "", "   ", "Jane Doe"}))

	assert.Empty(t, NormalizeParticipants(nil))
	assert.Empty(t, NormalizeParticipants([]string{"", "  ", "\t"}))
}

func TestParseParticipantCSVNoHeader(t *testing.T) {
	names, err := ParseParticipantCSV(strings.NewReader("Jane Doe\nBob Smith\nCarol Jones\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "Bob Smith", "Carol Jones"}, names)
}

func TestParseParticipantCSVWithHeader(t *testing.T) {
	input := "email,Name\njane@example.com,Jane Doe\nbob@example.com,Bob Smith\n"
	names, err := ParseParticipantCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "Bob Smith"}, names, "the name column is located by header")
}

func TestParseParticipantCSVDedupsAndTrims(t *testing.T) {
	names, err := ParseParticipantCSV(strings.NewReader("name\nJane Doe\n Jane Doe \nBob\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "Bob"}, names)
}

func TestParseParticipantCSVEmpty(t *testing.T) {
	_, err := ParseParticipantCSV(strings.NewReader(""))
	assert.Equal(t, certerrors.KindEmptyParticipantList, certerrors.KindOf(err))

	_, err = ParseParticipantCSV(strings.NewReader("name\n\n"))
	assert.Equal(t, certerrors.KindEmptyParticipantList, certerrors.KindOf(err))
}
