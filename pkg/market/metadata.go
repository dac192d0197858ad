package market

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FrameClient fetches frame pages from the frame app so the web client can read their meta tags
// without a CORS round trip.
type FrameClient struct {
	httpClient *resty.Client
	appURL     string
}

func NewFrameClient(appURL string, timeout time.Duration) *FrameClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Cache-Control", "no-cache")

	return &FrameClient{httpClient: client, appURL: strings.TrimRight(appURL, "/")}
}

// Metadata returns the <head> element of {appURL}/api/{path} as served
func (c *FrameClient) Metadata(ctx context.Context, path string) (string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(c.appURL + "/api/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("frame request: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() || resp.StatusCode() >= 300 {
		return "", &MetadataStatusError{Status: resp.StatusCode()}
	}

	return extractHead(body)
}

// extractHead copies the source of the first head element. html.Parse would synthesize a head for
// documents that have none, so this walks the token stream instead.
func extractHead(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)

	var (
		buf    bytes.Buffer
		inHead bool
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return "", z.Err()
			}
			if !inHead {
				return "", ErrNoHeadTag
			}
			// unterminated head, keep what was read
			return buf.String(), nil

		case html.StartTagToken, html.EndTagToken:
			// TagName lowercases the tokenizer buffer in place, copy the source first
			raw := append([]byte(nil), z.Raw()...)
			name, _ := z.TagName()
			isHead := atom.Lookup(name) == atom.Head

			if !inHead && tt == html.StartTagToken && isHead {
				inHead = true
			}
			if inHead {
				buf.Write(raw)
			}
			if inHead && tt == html.EndTagToken && isHead {
				return buf.String(), nil
			}

		default:
			if inHead {
				buf.Write(z.Raw())
			}
		}
	}
}
