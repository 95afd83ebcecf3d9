package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Category is one entry on the directory's category index page.
type Category struct {
	Name string
	Slug string
	URL  string
}

// agentCard is the listing-page summary of one agent.
type agentCard struct {
	Name        string
	URL         string
	Description string
}

// agentDetails carries the fields extracted from an agent's own page.
type agentDetails struct {
	Website     string
	Review      string
	KeyFeatures []string
	UseCases    []string
}

// placeholderUseCase matches the site's unfilled boilerplate entries
// ("User Case 1", "Use Case 2", ...), which carry no signal.
var placeholderUseCase = regexp.MustCompile(`(?i)^use(r)? case \d+$`)

// parseCategories extracts the category links from the category index page.
func parseCategories(base *url.URL, body []byte) ([]Category, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scraper: failed to parse category index: %w", err)
	}

	var cats []Category
	seen := make(map[string]struct{})

	doc.Find(`a[href^="/category/"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		name := strings.TrimSpace(s.Find("h2").First().Text())
		if name == "" {
			name = strings.TrimSpace(s.Text())
		}
		if name == "" {
			return
		}
		abs := resolveHref(base, href)
		if abs == "" {
			return
		}
		seen[href] = struct{}{}
		cats = append(cats, Category{
			Name: name,
			Slug: path.Base(strings.TrimSuffix(href, "/")),
			URL:  abs,
		})
	})

	return cats, nil
}

// parseAgentCards extracts agent summary cards from a category listing page.
// Cards without a name are skipped; the caller logs the skip count.
func parseAgentCards(base *url.URL, body []byte) ([]agentCard, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("scraper: failed to parse listing page: %w", err)
	}

	var cards []agentCard
	skipped := 0

	doc.Find(`a.block[href^="/agent"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			skipped++
			return
		}
		name := strings.TrimSpace(s.Find("h3").First().Text())
		if name == "" {
			skipped++
			return
		}
		abs := resolveHref(base, href)
		if abs == "" {
			skipped++
			return
		}
		cards = append(cards, agentCard{
			Name:        name,
			URL:         abs,
			Description: strings.TrimSpace(s.Find("p").First().Text()),
		})
	})

	return cards, skipped, nil
}

// parseAgentDetails extracts enrichment fields from an agent's detail page.
// Every field is optional; missing sections simply stay empty.
func parseAgentDetails(base *url.URL, body []byte) (agentDetails, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return agentDetails{}, fmt.Errorf("scraper: failed to parse detail page: %w", err)
	}

	d := agentDetails{
		Review:      sectionText(doc, "Review", "Our Review"),
		KeyFeatures: sectionItems(doc, "Key Features", "Features"),
	}

	for _, uc := range sectionItems(doc, "Use Cases", "User Cases") {
		if placeholderUseCase.MatchString(uc) {
			continue
		}
		d.UseCases = append(d.UseCases, uc)
	}

	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if !strings.Contains(text, "visit website") {
			return true
		}
		if href, ok := s.Attr("href"); ok {
			d.Website = resolveHref(base, href)
			return false
		}
		return true
	})

	return d, nil
}

// sectionItems returns the list items following the first h2/h3 heading
// whose text equals one of the given titles (case-insensitive), up to the
// next heading.
func sectionItems(doc *goquery.Document, titles ...string) []string {
	var items []string
	forSection(doc, titles, func(section *goquery.Selection) {
		section.Find("li").Each(func(_ int, li *goquery.Selection) {
			if v := strings.TrimSpace(li.Text()); v != "" {
				items = append(items, v)
			}
		})
	})
	return items
}

// sectionText returns the paragraph text following the first matching
// heading, up to the next heading.
func sectionText(doc *goquery.Document, titles ...string) string {
	var parts []string
	forSection(doc, titles, func(section *goquery.Selection) {
		section.Find("p").AddSelection(section.Filter("p")).Each(func(_ int, p *goquery.Selection) {
			if v := strings.TrimSpace(p.Text()); v != "" {
				parts = append(parts, v)
			}
		})
	})
	return strings.Join(parts, " ")
}

// forSection invokes fn with the sibling nodes between the first heading
// matching one of titles and the next heading.
func forSection(doc *goquery.Document, titles []string, fn func(*goquery.Selection)) {
	doc.Find("h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := strings.TrimSpace(h.Text())
		for _, t := range titles {
			if strings.EqualFold(text, t) {
				fn(h.NextUntil("h2, h3"))
				return false
			}
		}
		return true
	})
}

// resolveHref resolves href against base and returns the absolute URL,
// or "" if href is not parsable.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
