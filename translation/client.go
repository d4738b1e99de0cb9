// Package translation wraps the MyMemory public translation endpoint.
//
// One call to Translate performs at most one GET request. The response
// envelope is parsed for responseData.translatedText; anything else is
// reported as FailedText rather than as an error.
package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://api.mymemory.translated.net"
	DefaultTimeout  = 15 * time.Second

	// FailedText is returned when the endpoint answers but the envelope
	// carries no translation.
	FailedText = "Translation failed."

	// Bodies larger than this are not valid MyMemory responses.
	maxResponseBytes = 1 << 20
)

type Config struct {
	Endpoint       string
	TimeoutSeconds time.Duration
	// Contact email sent as "de"; MyMemory grants a larger daily quota to
	// requests that carry one.
	ContactEmail string
}

type Client struct {
	endpoint string
	http     *http.Client
	email    string
}

// New returns a client for cfg. A nil httpClient gets one with the
// configured timeout.
func New(cfg Config, httpClient *http.Client) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		timeout := cfg.TimeoutSeconds * time.Second
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: endpoint,
		http:     httpClient,
		email:    strings.TrimSpace(cfg.ContactEmail),
	}
}

type envelope struct {
	ResponseData *struct {
		TranslatedText *string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate translates English text into the target language code.
//
// Blank input yields "" without touching the network. Transport failures
// are returned as errors; a response without a translation yields
// FailedText and a nil error.
func (c *Client) Translate(ctx context.Context, text string, target string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", nil
	}

	reqURL, err := c.requestURL(trimmed, target)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("building translation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling translation endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading translation response: %w", err)
	}

	return extractTranslation(body), nil
}

func (c *Client) requestURL(text, target string) (string, error) {
	u, err := url.Parse(c.endpoint + "/get")
	if err != nil {
		return "", fmt.Errorf("bad translation endpoint '%s': %w", c.endpoint, err)
	}
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", SourceLanguage+"|"+target)
	if c.email != "" {
		q.Set("de", c.email)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func extractTranslation(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return FailedText
	}
	if env.ResponseData == nil || env.ResponseData.TranslatedText == nil {
		return FailedText
	}
	return *env.ResponseData.TranslatedText
}
