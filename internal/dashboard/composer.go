// Package dashboard assembles a single self-contained dashboard page from
// the specifications embedded in standalone chart HTML files.
//
// The composer is a single-pass text pipeline: read each input in order,
// extract its specification, then interpolate everything into one page. The
// extracted literals are re-embedded verbatim and are never validated; a
// malformed specification renders as a per-chart error in the browser
// instead of failing the merge.
package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"vizmerge/internal/extract"
)

// Default chrome used when an Options field is left empty. The runnable
// defaults for a concrete dataset live in the config layer, not here.
const (
	defaultHeadTitle = "Vega-Lite Dashboard"
	defaultHeading   = "Vega-Lite Visualization Dashboard"
	defaultSubtitle  = "Merged chart specifications"
	defaultFooter    = "Generated with Vega-Lite | Data visualization dashboard"
)

// DefaultTitles is the starting title pool used when the caller supplies
// none. It is padded or truncated to the document count before use.
func DefaultTitles() []string {
	return []string{
		"📊 Expenditure and Contribution Analysis",
		"🗺️ Geographic Distribution by County",
		"📈 Additional Analysis",
	}
}

// Options configures the static chrome of the generated page and where
// per-file status lines are written.
type Options struct {
	HeadTitle string
	Heading   string
	Subtitle  string
	Footer    string

	// Status receives the per-file progress lines and the final summary.
	// Defaults to os.Stdout.
	Status io.Writer
}

// Composer merges chart files into one dashboard document.
type Composer struct {
	headTitle string
	heading   string
	subtitle  string
	footer    string
	status    io.Writer
}

// New returns a Composer, filling any empty option with its default.
func New(opts Options) *Composer {
	c := &Composer{
		headTitle: opts.HeadTitle,
		heading:   opts.Heading,
		subtitle:  opts.Subtitle,
		footer:    opts.Footer,
		status:    opts.Status,
	}
	if c.headTitle == "" {
		c.headTitle = defaultHeadTitle
	}
	if c.heading == "" {
		c.heading = defaultHeading
	}
	if c.subtitle == "" {
		c.subtitle = defaultSubtitle
	}
	if c.footer == "" {
		c.footer = defaultFooter
	}
	if c.status == nil {
		c.status = os.Stdout
	}
	return c
}

// Merge reads each input path in order, extracts its embedded specification,
// and writes the combined dashboard to outputPath. A missing or unreadable
// input is non-fatal: it contributes an empty-object specification and a
// warning line, and processing continues. Only the output write can fail.
func (c *Composer) Merge(paths []string, outputPath string, titles []string) error {
	titles = ReconcileTitles(titles, len(paths))

	specs := make([]string, 0, len(paths))
	for i, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(c.status, "✗ warning: cannot read %s\n", path)
			specs = append(specs, extract.Empty)
			continue
		}
		specs = append(specs, extract.Spec(string(content)))
		fmt.Fprintf(c.status, "✓ read file %d: %s\n", i+1, path)
	}

	page, err := c.render(titles, specs)
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	if err := os.WriteFile(outputPath, page, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	fmt.Fprintf(c.status, "✓ merged %d visualizations into %s\n", len(paths), outputPath)
	return nil
}

// render assembles the complete page in memory. titles and specs must have
// equal length.
func (c *Composer) render(titles, specs []string) ([]byte, error) {
	data := pageData{
		HeadTitle:        c.headTitle,
		Heading:          c.heading,
		Subtitle:         c.subtitle,
		Footer:           c.footer,
		VegaVersion:      vegaVersion,
		VegaLiteVersion:  vegaLiteVersion,
		VegaEmbedVersion: vegaEmbedVersion,
		EmbedCSS:         embedCSS(len(specs)),
		Blocks:           visualizationBlocks(titles),
		SpecDecls:        specDeclarations(specs),
		RenderCalls:      renderInvocations(len(specs)),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReconcileTitles pads titles with sequential fallback names until it covers
// n documents, then truncates to exactly n. A nil slice starts from the
// built-in default pool; an explicit empty slice is padded from position 1.
func ReconcileTitles(titles []string, n int) []string {
	if titles == nil {
		titles = DefaultTitles()
	}
	out := make([]string, 0, n)
	out = append(out, titles...)
	for len(out) < n {
		out = append(out, fmt.Sprintf("📊 Visualization %d", len(out)+1))
	}
	return out[:n]
}

// visualizationBlocks emits one titled container per document, each with an
// empty placeholder region the render invocation fills in at view time.
func visualizationBlocks(titles []string) string {
	var b strings.Builder
	for i, title := range titles {
		fmt.Fprintf(&b, `
    <!-- visualization %d -->
    <div class="visualization">
      <div class="vis-title">%s</div>
      <div id="region%d"></div>
    </div>
`, i+1, title, i+1)
	}
	return b.String()
}

// specDeclarations binds each extracted literal to its spec<i> identifier.
// The literal is emitted verbatim; malformed captures propagate as-is.
func specDeclarations(specs []string) string {
	var b strings.Builder
	for i, spec := range specs {
		fmt.Fprintf(&b, "      var spec%d = %s;\n", i+1, spec)
	}
	return b.String()
}

// renderInvocations wires each placeholder region to its specification,
// with a failure handler that confines a broken chart to its own region.
func renderInvocations(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `
      const el%d = document.getElementById('region%d');
      vegaEmbed("#region%d", spec%d, embedOpt)
        .catch(error => showError(el%d, error));
`, i, i, i, i, i)
	}
	return b.String()
}

// embedCSS emits layout rules for every placeholder region so each chart
// gets the same treatment regardless of the document count. No rules are
// emitted for an empty dashboard.
func embedCSS(n int) string {
	if n == 0 {
		return ""
	}
	selectors := make([]string, 0, n)
	details := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		selectors = append(selectors, fmt.Sprintf("#region%d.vega-embed", i))
		details = append(details,
			fmt.Sprintf("#region%d.vega-embed details,\n    #region%d.vega-embed details summary", i, i))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
    %s {
      width: 100%%;
      display: flex;
    }

    %s {
      position: relative;
    }
`, strings.Join(selectors, ", "), strings.Join(details, ",\n    "))
	return b.String()
}
