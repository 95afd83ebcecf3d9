// Package scraper implements the collector: it walks the AI agent
// directory's category index, pulls every listing page, optionally enriches
// each agent from its detail page, and produces a catalog in scrape order.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/agentdir/agentdir/internal/catalog"
)

// ErrNoAgents is returned when a completed run collected zero records.
var ErrNoAgents = errors.New("scraper: no agents found")

// Options configures a Scraper.
type Options struct {
	// BaseURL is the directory site root, e.g. https://aiagentsdirectory.com.
	BaseURL string

	// FetchDetails enables per-agent detail page enrichment.
	FetchDetails bool

	// FailFast aborts the run on the first exhausted page fetch instead of
	// skipping the page and continuing.
	FailFast bool

	// MaxPages caps pagination per category. 0 means no cap.
	MaxPages int
}

// RunSummary reports what a scrape run did.
type RunSummary struct {
	Categories     int           `json:"categories"`
	PagesFetched   int           `json:"pages_fetched"`
	PagesSkipped   int           `json:"pages_skipped"`
	AgentsFound    int           `json:"agents_found"`
	DetailsFetched int           `json:"details_fetched"`
	DetailsSkipped int           `json:"details_skipped"`
	RecordsSkipped int           `json:"records_skipped"`
	Duration       time.Duration `json:"duration"`
}

// Scraper collects AgentRecords from the directory site.
type Scraper struct {
	fetcher PageFetcher
	base    *url.URL
	opts    Options
}

// New creates a Scraper that fetches pages through fetcher.
func New(fetcher PageFetcher, opts Options) (*Scraper, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("scraper: invalid base URL %q", opts.BaseURL)
	}
	return &Scraper{fetcher: fetcher, base: base, opts: opts}, nil
}

// Run performs a full scrape: category discovery, paged listing extraction
// per category, and optional detail enrichment. Page failures after retries
// are skipped and counted unless FailFast is set. A run that finds zero
// agents returns ErrNoAgents.
func (s *Scraper) Run(ctx context.Context) (*catalog.Catalog, *RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{}

	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}
	summary.Categories = len(cats)
	log.Printf("scrape: found %d categories", len(cats))

	cat := catalog.New()
	for _, c := range cats {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		cards, err := s.agentsInCategory(ctx, c, summary)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("scrape: found %d agents in category %s", len(cards), c.Name)

		for _, card := range cards {
			rec := s.buildRecord(ctx, c, card, summary)
			cat.Append(rec)
		}
	}

	summary.AgentsFound = cat.Len()
	summary.Duration = time.Since(start)

	if cat.Len() == 0 {
		return nil, summary, ErrNoAgents
	}
	return cat, summary, nil
}

// Categories fetches and parses the category index page. A failure here is
// fatal regardless of FailFast: without the index there is nothing to walk.
func (s *Scraper) Categories(ctx context.Context) ([]Category, error) {
	indexURL := s.base.JoinPath("categories").String()
	body, err := s.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("scraper: failed to fetch category index: %w", err)
	}
	cats, err := parseCategories(s.base, body)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("scraper: category index %s yielded no categories", indexURL)
	}
	return cats, nil
}

// agentsInCategory pages through a category listing until a page adds no
// agents not already seen for that category.
func (s *Scraper) agentsInCategory(ctx context.Context, c Category, summary *RunSummary) ([]agentCard, error) {
	var cards []agentCard
	seen := make(map[string]struct{})

	for page := 1; s.opts.MaxPages == 0 || page <= s.opts.MaxPages; page++ {
		pageURL := c.URL
		if page > 1 {
			pageURL = c.URL + "?page=" + fmt.Sprint(page)
		}

		body, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if s.opts.FailFast {
				return nil, fmt.Errorf("scraper: failed to fetch %s: %w", pageURL, err)
			}
			if page == 1 {
				summary.PagesSkipped++
				log.Printf("scrape: skipping category %s: %v", c.Name, err)
			}
			// Later pages failing is treated as the end of the category.
			break
		}
		summary.PagesFetched++

		pageCards, skipped, err := parseAgentCards(s.base, body)
		if err != nil {
			if s.opts.FailFast {
				return nil, err
			}
			summary.PagesSkipped++
			log.Printf("scrape: skipping unparsable page %s: %v", pageURL, err)
			break
		}
		summary.RecordsSkipped += skipped

		added := 0
		for _, card := range pageCards {
			if _, dup := seen[card.URL]; dup {
				continue
			}
			seen[card.URL] = struct{}{}
			cards = append(cards, card)
			added++
		}
		if added == 0 {
			break
		}
	}

	return cards, nil
}

// buildRecord assembles one AgentRecord from a listing card, enriching it
// from the agent's detail page when enabled. Detail failures only cost the
// enrichment, never the record.
func (s *Scraper) buildRecord(ctx context.Context, c Category, card agentCard, summary *RunSummary) catalog.AgentRecord {
	rec := catalog.AgentRecord{Name: card.Name, Category: c.Slug}
	rec.Set("url", card.URL)
	rec.Set("source_url", c.URL)
	rec.Set("description", card.Description)

	if !s.opts.FetchDetails {
		return rec
	}

	body, err := s.fetcher.Fetch(ctx, card.URL)
	if err != nil {
		summary.DetailsSkipped++
		log.Printf("scrape: no details for %s: %v", card.Name, err)
		return rec
	}
	details, err := parseAgentDetails(s.base, body)
	if err != nil {
		summary.DetailsSkipped++
		log.Printf("scrape: unparsable details for %s: %v", card.Name, err)
		return rec
	}
	summary.DetailsFetched++

	rec.Set("website", details.Website)
	rec.Set("review", details.Review)
	rec.Set("key_features", strings.Join(details.KeyFeatures, "\n"))
	rec.UseCase = strings.Join(details.UseCases, "\n")
	return rec
}
