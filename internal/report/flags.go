package report

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"

	_ "image/jpeg" // flag thumbnail decoding
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// Flag thumbnail dimensions on the summary canvas.
const (
	flagWidth  = 40
	flagHeight = 30
)

// rasterFlagURL rewrites a flagcdn SVG URL to the CDN's pre-rendered PNG
// variant (https://flagcdn.com/ng.svg → https://flagcdn.com/w80/ng.png).
// Other URLs pass through unchanged.
func rasterFlagURL(url string) string {
	if strings.Contains(url, "flagcdn.com") && strings.HasSuffix(url, ".svg") {
		url = strings.Replace(url, "flagcdn.com/", "flagcdn.com/w80/", 1)
		url = strings.TrimSuffix(url, ".svg") + ".png"
	}
	return url
}

// fetchFlag downloads a flag image and scales it to thumbnail size.
func (g *Generator) fetchFlag(ctx context.Context, flagURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rasterFlagURL(flagURL), nil)
	if err != nil {
		return nil, fmt.Errorf("create flag request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch flag: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch flag: unexpected status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode flag image: %w", err)
	}

	thumb := image.NewRGBA(image.Rect(0, 0, flagWidth, flagHeight))
	xdraw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return thumb, nil
}
