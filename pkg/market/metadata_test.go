package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHead(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr error
	}{
		{
			name: "frame page",
			doc: `<!DOCTYPE html><html><head><meta property="fc:frame" content="vNext"/>` +
				`<meta property="fc:frame:image" content="https://frame.fomofactory.xyz/og.png"/></head><body>hi</body></html>`,
			want: `<head><meta property="fc:frame" content="vNext"/>` +
				`<meta property="fc:frame:image" content="https://frame.fomofactory.xyz/og.png"/></head>`,
		},
		{
			name: "head with attributes and text",
			doc:  `<html><HEAD lang="en"><title>Fomo</title></HEAD></html>`,
			want: `<HEAD lang="en"><title>Fomo</title></HEAD>`,
		},
		{
			name: "mixed case tags inside head",
			doc:  `<html><Head><META Name="fc:frame" content="vNext"><Title>Fomo</Title></Head><body></body></html>`,
			want: `<Head><META Name="fc:frame" content="vNext"><Title>Fomo</Title></Head>`,
		},
		{
			name:    "no head",
			doc:     `<html><body><p>plain</p></body></html>`,
			wantErr: ErrNoHeadTag,
		},
		{
			name:    "header is not head",
			doc:     `<header>nav</header>`,
			wantErr: ErrNoHeadTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractHead(strings.NewReader(tt.doc))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrameClientMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/frames/token/0xabc":
			_, _ = w.Write([]byte(`<html><head><meta name="x" content="y"></head></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewFrameClient(srv.URL+"/", 5*time.Second)

	head, err := c.Metadata(context.Background(), "frames/token/0xabc")
	require.NoError(t, err)
	assert.Equal(t, `<head><meta name="x" content="y"></head>`, head)

	_, err = c.Metadata(context.Background(), "missing")
	var statusErr *MetadataStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
}
