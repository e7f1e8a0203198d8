// Package github implements the StatusSource port using the go-github
// library.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.StatusSource = (*StatusClient)(nil)

// StatusClient fetches combined commit statuses from the GitHub Status API
// and maps them to the opaque check tuples the classifier consumes.
type StatusClient struct {
	gh *gh.Client
}

// NewStatusClient creates a StatusClient with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewStatusClient(token string) *StatusClient {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &StatusClient{gh: client}
}

// NewStatusClientWithHTTPClient creates a StatusClient with a custom
// http.Client and base URL. This constructor is intended for testing,
// allowing injection of an httptest server.
func NewStatusClientWithHTTPClient(httpClient *http.Client, baseURL string) (*StatusClient, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &StatusClient{gh: client}, nil
}

// CombinedStatus retrieves the combined status for a commit and returns one
// tuple per status context: [state, target URL, description]. It handles
// pagination automatically.
func (c *StatusClient) CombinedStatus(ctx context.Context, repoFullName, ref string) (map[string]model.CheckStatus, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	out := map[string]model.CheckStatus{}

	for {
		combined, resp, err := c.gh.Repositories.GetCombinedStatus(ctx, owner, repo, ref, opts)
		if err != nil {
			return nil, fmt.Errorf("get combined status for %s@%s (page %d): %w", repoFullName, ref, opts.Page, err)
		}

		for _, st := range combined.Statuses {
			out[st.GetContext()] = model.CheckStatus{st.GetState(), st.GetTargetURL(), st.GetDescription()}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// splitRepo splits "owner/name" into its parts.
func splitRepo(repoFullName string) (owner, repo string, err error) {
	parts := strings.SplitN(repoFullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository name %q, expected owner/name", repoFullName)
	}
	return parts[0], parts[1], nil
}
