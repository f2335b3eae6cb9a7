// Package report generates the post-refresh summary artifact: a fixed
// 800×600 PNG with the total country count, the top 5 countries by
// estimated GDP, and the cycle timestamp.
package report

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"country-insights/internal/domain"
	"country-insights/internal/storage"
)

// DefaultPath is the well-known artifact location. Absence of the file is
// the normal "not yet generated" state for the HTTP consumer.
const DefaultPath = "cache/summary.png"

// topN is how many countries the summary lists.
const topN = 5

// Generator queries aggregate state and renders the summary image.
type Generator struct {
	store  storage.CountryStore
	path   string
	client *http.Client
	logger *log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithPath overrides the artifact path.
func WithPath(path string) Option {
	return func(g *Generator) {
		g.path = path
	}
}

// WithHTTPClient sets the client used for flag thumbnail fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		g.client = client
	}
}

// WithLogger sets the component logger.
func WithLogger(logger *log.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a report generator over the given store.
func NewGenerator(store storage.CountryStore, opts ...Option) *Generator {
	g := &Generator{
		store:  store,
		path:   DefaultPath,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: log.New(log.Writer(), "[report] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate queries the current totals and the top 5 by estimated GDP
// (unknown GDP after all known values), renders the canvas, and writes it
// to the artifact path, overwriting any prior file. The write is a plain
// overwrite, not an atomic rename: a concurrent reader may observe a
// partially written file.
//
// A flag thumbnail failure skips art for that entry only.
func (g *Generator) Generate(ctx context.Context, asOf time.Time) error {
	total, err := g.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count countries: %w", err)
	}

	all, err := g.store.Filter(ctx, storage.FilterOptions{Sort: storage.SortGDPDesc})
	if err != nil {
		return fmt.Errorf("load top countries: %w", err)
	}
	top := all
	if len(top) > topN {
		top = top[:topN]
	}

	f, err := newFaces()
	if err != nil {
		return err
	}

	img := newCanvas()
	drawTextCentered(img, f.title, 60, "Country Data Summary")
	drawText(img, f.body, 30, 120, fmt.Sprintf("Total Countries: %d", total))
	drawText(img, f.body, 30, 170, "Top 5 by GDP:")

	for i, c := range top {
		y := 200 + i*60

		if c.FlagURL != nil {
			if thumb, err := g.fetchFlag(ctx, *c.FlagURL); err != nil {
				g.logger.Printf("flag thumbnail for %s skipped: %v", c.Name, err)
			} else {
				drawThumbnail(img, thumb, 50, y)
			}
		}

		drawText(img, f.body, 100, y+25, entryLine(i+1, c))
	}

	drawText(img, f.body, 30, 540,
		fmt.Sprintf("Last Updated: %s", asOf.UTC().Format("2006-01-02 15:04:05 UTC")))

	if err := g.write(img); err != nil {
		return err
	}

	g.logger.Printf("summary image generated at %s", g.path)
	return nil
}

// entryLine formats one top-5 line. Unknown GDP renders as N/A; the zero
// sentinel renders as $0.
func entryLine(rank int, c *domain.Country) string {
	if c.EstimatedGDP == nil {
		return fmt.Sprintf("%d. %s - N/A", rank, c.Name)
	}
	gdp, _ := c.EstimatedGDP.Float64()
	return fmt.Sprintf("%d. %s - $%s", rank, c.Name, FormatGDP(gdp))
}

// write encodes the canvas to the artifact path.
func (g *Generator) write(img *image.RGBA) error {
	if dir := filepath.Dir(g.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact directory: %w", err)
		}
	}

	out, err := os.Create(g.path)
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode summary png: %w", err)
	}
	return nil
}
