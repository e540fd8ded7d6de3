// Package plot renders the finalized energy distribution as SVG scatter
// plots (linear and semi-log) and as an ASCII chart for terminal output.
// The semi-log view is the standard check for the exponential Boltzmann
// shape: a straight line of points indicates the thermodynamic limit has
// been approximately reached.
package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/statmech/boltzsim/internal/stats"
)

// Scale selects the y-axis scale of an SVG plot.
type Scale string

const (
	ScaleLinear  Scale = "linear"
	ScaleSemilog Scale = "semilog"
)

const (
	svgWidth    = 640
	svgHeight   = 480
	marginLeft  = 70
	marginRight = 20
	marginTop   = 40
	marginBot   = 50
)

// SVG renders the distribution as an SVG scatter plot with the given
// y-axis scale. Zero-probability levels are skipped on the semi-log scale.
func SVG(summary *stats.Summary, scale Scale) string {
	type pt struct {
		level int
		y     float64
	}

	var pts []pt
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, lp := range summary.Distribution {
		y := lp.Probability
		if scale == ScaleSemilog {
			if y <= 0 {
				continue
			}
			y = math.Log10(y)
		}
		pts = append(pts, pt{lp.Level, y})
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		svgWidth, svgHeight, svgWidth, svgHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	title := "Molecular energy distribution"
	yLabel := "Probability p_i"
	if scale == ScaleSemilog {
		yLabel = "log10 p_i"
	}
	fmt.Fprintf(&b, `<text x="%d" y="25" text-anchor="middle" font-family="Helvetica" font-size="16">%s</text>`+"\n",
		svgWidth/2, title)
	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="Helvetica" font-size="13">Energy of a molecule in units of epsilon</text>`+"\n",
		svgWidth/2, svgHeight-10)
	fmt.Fprintf(&b, `<text x="18" y="%d" text-anchor="middle" font-family="Helvetica" font-size="13" transform="rotate(-90 18 %d)">%s</text>`+"\n",
		svgHeight/2, svgHeight/2, yLabel)

	// Axes
	plotW := svgWidth - marginLeft - marginRight
	plotH := svgHeight - marginTop - marginBot
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
		marginLeft, svgHeight-marginBot, svgWidth-marginRight, svgHeight-marginBot)
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
		marginLeft, marginTop, marginLeft, svgHeight-marginBot)

	if len(pts) == 0 {
		b.WriteString("</svg>\n")
		return b.String()
	}

	minX := float64(pts[0].level)
	maxX := float64(pts[len(pts)-1].level)
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	for _, p := range pts {
		x := marginLeft + (float64(p.level)-minX)/(maxX-minX)*float64(plotW)
		y := float64(svgHeight-marginBot) - (p.y-minY)/(maxY-minY)*float64(plotH)
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="5" fill="steelblue"/>`+"\n", x, y)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" text-anchor="middle" font-family="Helvetica" font-size="11">%d</text>`+"\n",
			x, svgHeight-marginBot+18, p.level)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// ASCII renders the distribution as a horizontal bar chart, one row per
// level, scaled to width columns.
func ASCII(summary *stats.Summary, width int) string {
	if width < 1 {
		width = 50
	}

	var maxP float64
	for _, lp := range summary.Distribution {
		maxP = math.Max(maxP, lp.Probability)
	}

	var b strings.Builder
	for _, lp := range summary.Distribution {
		bar := 0
		if maxP > 0 {
			bar = int(math.Round(lp.Probability / maxP * float64(width)))
		}
		fmt.Fprintf(&b, "%4d | %-*s %.6f\n", lp.Level, width, strings.Repeat("#", bar), lp.Probability)
	}
	return b.String()
}
