package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLPrinterPrint(t *testing.T) {
	printer, err := NewHTMLPrinter(1)
	require.NoError(t, err)
	if printer == nil {
		t.Skip("no Chromium binary on PATH")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out, err := printer.Print(ctx, "<html><body><h1>Certificate of Completion</h1></body></html>")
	require.NoError(t, err)
	assert.True(t, IsPDF(out))
}

func TestHTMLPrinterHonorsCancelledContext(t *testing.T) {
	printer := &HTMLPrinter{execPath: "/usr/bin/true", sem: make(chan struct{}, 1)}
	printer.sem <- struct{}{} // pool exhausted

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := printer.Print(ctx, "<html></html>")
	assert.ErrorIs(t, err, context.Canceled)
}
