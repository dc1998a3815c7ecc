// Package youtube fetches video transcripts for the video summarizer agent.
package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prepgraph/prepgraph/pkg/httpclient"
)

const timedTextURL = "https://video.google.com/timedtext"

// Client fetches transcripts through YouTube's timedtext endpoint.
type Client struct {
	httpClient *httpclient.Client
	language   string
}

// Option configures a Client.
type Option func(*Client)

// WithLanguage sets the transcript language (default "en").
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// NewClient creates a transcript client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
			httpclient.WithMaxRetries(2),
		),
		language: "en",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseVideoID extracts the video ID from the common YouTube URL shapes
// (watch?v=, youtu.be/, shorts/, embed/). A bare 11-character ID passes
// through unchanged.
func ParseVideoID(videoURL string) (string, error) {
	trimmed := strings.TrimSpace(videoURL)
	if trimmed == "" {
		return "", fmt.Errorf("empty video URL")
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		if isVideoID(trimmed) {
			return trimmed, nil
		}
		return "", fmt.Errorf("invalid YouTube URL: %s", videoURL)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if isVideoID(id) {
			return id, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); isVideoID(id) {
			return id, nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
				if isVideoID(id) {
					return id, nil
				}
			}
		}
	}

	return "", fmt.Errorf("could not extract video ID from URL: %s", videoURL)
}

func isVideoID(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// IsVideoURL reports whether the input looks like a YouTube link.
func IsVideoURL(input string) bool {
	lower := strings.ToLower(input)
	return strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be")
}

type timedTextDocument struct {
	XMLName xml.Name        `xml:"transcript"`
	Texts   []timedTextItem `xml:"text"`
}

type timedTextItem struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// FetchTranscript returns the full transcript text for a video URL.
func (c *Client) FetchTranscript(ctx context.Context, videoURL string) (string, error) {
	videoID, err := ParseVideoID(videoURL)
	if err != nil {
		return "", err
	}
	return c.FetchTranscriptByID(ctx, videoID)
}

// FetchTranscriptByID returns the full transcript text for a video ID.
func (c *Client) FetchTranscriptByID(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s", timedTextURL, url.QueryEscape(c.language), url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript response: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("no transcript available for video %s (lang=%s)", videoID, c.language)
	}

	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("failed to parse transcript: %w", err)
	}
	if len(doc.Texts) == 0 {
		return "", fmt.Errorf("no transcript available for video %s (lang=%s)", videoID, c.language)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, item := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(item.Text))
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}
