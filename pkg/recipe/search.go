package recipe

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

// Hit is one recipe page returned by a search backend.
type Hit struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Searcher looks up recipe pages by dish name.
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]Hit, error)
}

// GoogleSearcher queries a Programmable Search Engine scoped to recipe sites.
type GoogleSearcher struct {
	BaseURL  string
	APIKey   string
	EngineID string
	Client   *http.Client
}

var _ Searcher = &GoogleSearcher{}

func NewGoogleSearcher(baseURL, apiKey, engineID string) *GoogleSearcher {
	return &GoogleSearcher{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		EngineID: engineID,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type googleSearchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

func (g *GoogleSearcher) Search(ctx context.Context, keyword string) ([]Hit, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("key", g.APIKey)
	params.Set("cx", g.EngineID)
	params.Set("q", keyword+" レシピ")
	params.Set("num", "3")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recipe search failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recipe search error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed googleSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		hits = append(hits, Hit{Title: item.Title, URL: item.Link})
	}
	return hits, nil
}
