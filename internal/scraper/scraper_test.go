package scraper

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves pages from a map and records what was requested.
type fakeFetcher struct {
	pages    map[string]string
	requests []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.requests = append(f.requests, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageUnavailable, url)
	}
	return []byte(body), nil
}

func card(href, name, desc string) string {
	return fmt.Sprintf(`<a class="block" href=%q><h3>%s</h3><p>%s</p></a>`, href, name, desc)
}

func detailPage(useCases ...string) string {
	page := `<html><body><a href="https://site.example.com">Visit Website</a><h2>Use Cases</h2><ul>`
	for _, uc := range useCases {
		page += "<li>" + uc + "</li>"
	}
	return page + `</ul></body></html>`
}

// fixtureSite builds the three-listing site from the end-to-end scenario:
// categories {productivity: 2 agents, sales: 1 agent}.
func fixtureSite() map[string]string {
	const base = "https://directory.test"
	return map[string]string{
		base + "/categories": `<html><body>
			<a href="/category/productivity"><h2>Productivity</h2></a>
			<a href="/category/sales"><h2>Sales</h2></a>
		</body></html>`,
		base + "/category/productivity": "<html><body>" +
			card("/agent/helper", "Helper", "An assistant") +
			card("/agent/writer", "Writer", "Writes copy") +
			"</body></html>",
		base + "/category/productivity?page=2": "<html><body></body></html>",
		base + "/category/sales": "<html><body>" +
			card("/agent/closer", "Closer", "Closes deals") +
			"</body></html>",
		base + "/category/sales?page=2": "<html><body></body></html>",
		base + "/agent/helper":          detailPage("Inbox triage", "Scheduling"),
		base + "/agent/writer":          detailPage("Blog drafts"),
		base + "/agent/closer":          detailPage("Lead scoring"),
	}
}

func TestScrapeRun(t *testing.T) {
	fetcher := &fakeFetcher{pages: fixtureSite()}
	s, err := New(fetcher, Options{BaseURL: "https://directory.test", FetchDetails: true})
	require.NoError(t, err)

	cat, summary, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, cat.Len())
	assert.Equal(t, 2, summary.Categories)
	assert.Equal(t, 3, summary.AgentsFound)
	assert.Equal(t, 3, summary.DetailsFetched)
	assert.Zero(t, summary.DetailsSkipped)

	// Insertion order = scrape order.
	assert.Equal(t, "Helper", cat.Agents[0].Name)
	assert.Equal(t, "Writer", cat.Agents[1].Name)
	assert.Equal(t, "Closer", cat.Agents[2].Name)

	// Category field holds the category slug; extras come along.
	helper := cat.Agents[0]
	assert.Equal(t, "productivity", helper.Category)
	assert.Equal(t, "Inbox triage\nScheduling", helper.UseCase)
	assert.Equal(t, "https://directory.test/agent/helper", helper.Get("url"))
	assert.Equal(t, "https://directory.test/category/productivity", helper.Get("source_url"))
	assert.Equal(t, "An assistant", helper.Get("description"))
	assert.Equal(t, "https://site.example.com", helper.Get("website"))

	assert.Equal(t, "sales", cat.Agents[2].Category)
}

func TestScrapeWithoutDetails(t *testing.T) {
	fetcher := &fakeFetcher{pages: fixtureSite()}
	s, err := New(fetcher, Options{BaseURL: "https://directory.test", FetchDetails: false})
	require.NoError(t, err)

	cat, summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())
	assert.Zero(t, summary.DetailsFetched)
	for _, url := range fetcher.requests {
		assert.NotContains(t, url, "/agent/")
	}
	assert.Empty(t, cat.Agents[0].UseCase)
}

func TestScrapePaginationStopsOnNoNewAgents(t *testing.T) {
	const base = "https://directory.test"
	pages := map[string]string{
		base + "/categories": `<html><body><a href="/category/tools"><h2>Tools</h2></a></body></html>`,
		base + "/category/tools": "<html><body>" +
			card("/agent/one", "One", "") + card("/agent/two", "Two", "") +
			"</body></html>",
		base + "/category/tools?page=2": "<html><body>" +
			card("/agent/two", "Two", "") + card("/agent/three", "Three", "") +
			"</body></html>",
		// Page 3 repeats page 2: zero new agents terminates pagination.
		base + "/category/tools?page=3": "<html><body>" +
			card("/agent/two", "Two", "") + card("/agent/three", "Three", "") +
			"</body></html>",
		base + "/category/tools?page=4": "<html><body></body></html>",
	}
	fetcher := &fakeFetcher{pages: pages}
	s, err := New(fetcher, Options{BaseURL: base, FetchDetails: false})
	require.NoError(t, err)

	cat, summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, 3, summary.PagesFetched)
	assert.NotContains(t, fetcher.requests, base+"/category/tools?page=4")
}

func TestScrapeSkipsUnfetchableCategory(t *testing.T) {
	const base = "https://directory.test"
	pages := map[string]string{
		base + "/categories": `<html><body>
			<a href="/category/broken"><h2>Broken</h2></a>
			<a href="/category/ok"><h2>OK</h2></a>
		</body></html>`,
		base + "/category/ok": "<html><body>" + card("/agent/one", "One", "") + "</body></html>",
	}
	fetcher := &fakeFetcher{pages: pages}
	s, err := New(fetcher, Options{BaseURL: base, FetchDetails: false})
	require.NoError(t, err)

	cat, summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cat.Len())
	assert.Equal(t, 1, summary.PagesSkipped)
	assert.Equal(t, "One", cat.Agents[0].Name)
}

func TestScrapeFailFastAbortsOnFetchError(t *testing.T) {
	const base = "https://directory.test"
	pages := map[string]string{
		base + "/categories": `<html><body><a href="/category/broken"><h2>Broken</h2></a></body></html>`,
	}
	s, err := New(&fakeFetcher{pages: pages}, Options{BaseURL: base, FailFast: true})
	require.NoError(t, err)

	_, _, err = s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPageUnavailable)
}

func TestScrapeDetailFailureKeepsRecord(t *testing.T) {
	const base = "https://directory.test"
	pages := map[string]string{
		base + "/categories":    `<html><body><a href="/category/tools"><h2>Tools</h2></a></body></html>`,
		base + "/category/tools": "<html><body>" + card("/agent/one", "One", "desc") + "</body></html>",
		// No detail page for /agent/one.
	}
	s, err := New(&fakeFetcher{pages: pages}, Options{BaseURL: base, FetchDetails: true})
	require.NoError(t, err)

	cat, summary, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, cat.Len())
	assert.Equal(t, 1, summary.DetailsSkipped)
	assert.Equal(t, "One", cat.Agents[0].Name)
	assert.Equal(t, "desc", cat.Agents[0].Get("description"))
}

func TestScrapeDuplicateCardsWithinCategory(t *testing.T) {
	const base = "https://directory.test"
	pages := map[string]string{
		base + "/categories": `<html><body><a href="/category/tools"><h2>Tools</h2></a></body></html>`,
		base + "/category/tools": "<html><body>" +
			card("/agent/one", "One", "") + card("/agent/one", "One again", "") +
			"</body></html>",
		base + "/category/tools?page=2": "<html><body></body></html>",
	}
	s, err := New(&fakeFetcher{pages: pages}, Options{BaseURL: base, FetchDetails: false})
	require.NoError(t, err)

	cat, _, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
}

func TestScrapeEmptySiteIsAnError(t *testing.T) {
	const base = "https://directory.test"
	pages := map[string]string{
		base + "/categories":     `<html><body><a href="/category/empty"><h2>Empty</h2></a></body></html>`,
		base + "/category/empty": "<html><body><p>no agents yet</p></body></html>",
	}
	s, err := New(&fakeFetcher{pages: pages}, Options{BaseURL: base})
	require.NoError(t, err)

	_, summary, err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAgents)
	assert.NotNil(t, summary)
}

func TestScrapeMissingCategoryIndexIsFatal(t *testing.T) {
	s, err := New(&fakeFetcher{pages: map[string]string{}}, Options{BaseURL: "https://directory.test"})
	require.NoError(t, err)

	_, _, err = s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPageUnavailable)
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	_, err := New(&fakeFetcher{}, Options{BaseURL: "not a url"})
	assert.Error(t, err)
}
