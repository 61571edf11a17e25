// Package wolframalpha queries the WolframAlpha full results API.
package wolframalpha

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"

	"tjbot/internal/domain"
)

// DefaultEndpoint is the public full results API.
const DefaultEndpoint = "http://api.wolframalpha.com/v2/query"

type queryResult struct {
	XMLName xml.Name `xml:"queryresult"`
	Success bool     `xml:"success,attr"`
	Error   bool     `xml:"error,attr"`
	Timing  string   `xml:"timing,attr"`
	Pods    []pod    `xml:"pod"`
}

type pod struct {
	Title   string   `xml:"title,attr"`
	SubPods []subPod `xml:"subpod"`
}

type subPod struct {
	Title     string `xml:"title,attr"`
	Plaintext string `xml:"plaintext"`
	Image     *image `xml:"img"`
}

type image struct {
	Source string `xml:"src,attr"`
	Alt    string `xml:"alt,attr"`
	Title  string `xml:"title,attr"`
}

type httpClient struct {
	client   *http.Client
	endpoint string
	appID    string
}

// NewClient returns a MathQueryClient for the given endpoint and app id.
func NewClient(client *http.Client, endpoint, appID string) domain.MathQueryClient {
	if client == nil {
		client = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &httpClient{client: client, endpoint: endpoint, appID: appID}
}

func (c *httpClient) Query(ctx context.Context, query string) (*domain.MathQueryResult, error) {
	params := url.Values{}
	params.Set("appid", c.appID)
	params.Set("format", "image,plaintext")
	params.Set("input", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMathUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", domain.ErrMathStatus, resp.StatusCode)
	}

	var data queryResult
	if err := xml.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMathDecode, err)
	}
	return data.toDomain(), nil
}

func (r queryResult) toDomain() *domain.MathQueryResult {
	result := &domain.MathQueryResult{
		Success: r.Success && !r.Error,
		Timing:  r.Timing,
		Pods:    make([]domain.MathPod, 0, len(r.Pods)),
	}
	for _, p := range r.Pods {
		mp := domain.MathPod{Title: p.Title, SubPods: make([]domain.MathSubPod, 0, len(p.SubPods))}
		for _, sp := range p.SubPods {
			ms := domain.MathSubPod{Title: sp.Title, Plaintext: sp.Plaintext}
			if sp.Image != nil {
				ms.Image = domain.MathImage{Source: sp.Image.Source, Alt: sp.Image.Alt, Title: sp.Image.Title}
			}
			mp.SubPods = append(mp.SubPods, ms)
		}
		result.Pods = append(result.Pods, mp)
	}
	return result
}
