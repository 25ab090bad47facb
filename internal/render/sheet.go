package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/kozaktomas/photoid/internal/standard"
)

// Paper is a physical print sheet size.
type Paper struct {
	Name     string  `json:"name"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

var papers = []Paper{
	{Name: "4x6", WidthMM: 101.6, HeightMM: 152.4},
	{Name: "5x7", WidthMM: 127, HeightMM: 177.8},
	{Name: "a4", WidthMM: 210, HeightMM: 297},
	{Name: "letter", WidthMM: 215.9, HeightMM: 279.4},
}

// PaperByName resolves a paper size by its name.
func PaperByName(name string) (Paper, bool) {
	for _, p := range papers {
		if p.Name == name {
			return p, true
		}
	}
	return Paper{}, false
}

// Papers returns the supported sheet sizes.
func Papers() []Paper {
	out := make([]Paper, len(papers))
	copy(out, papers)
	return out
}

// Photos on a sheet keep at least this much space between them so the cut
// guides have room.
const minSpacingMM = 2.0

const mmPerInch = 25.4

var guideGray = color.RGBA{185, 185, 185, 255}

// SheetLayout is the computed grid for one paper and photo size.
type SheetLayout struct {
	PaperW   int `json:"paper_w"`
	PaperH   int `json:"paper_h"`
	Cols     int `json:"cols"`
	Rows     int `json:"rows"`
	Count    int `json:"count"`
	MarginX  int `json:"margin_x"`
	MarginY  int `json:"margin_y"`
	SpacingX int `json:"spacing_x"`
	SpacingY int `json:"spacing_y"`
}

// PlanSheet fits as many photos as possible onto the paper, trying both
// paper orientations and keeping the better one. Ties keep the portrait
// orientation.
func PlanSheet(paper Paper, spec standard.SpecPx) SheetLayout {
	pw := mmToPx(paper.WidthMM)
	ph := mmToPx(paper.HeightMM)
	portrait := planOrientation(pw, ph, spec.W, spec.H)
	landscape := planOrientation(ph, pw, spec.W, spec.H)
	if landscape.Count > portrait.Count {
		return landscape
	}
	return portrait
}

func planOrientation(paperW, paperH, photoW, photoH int) SheetLayout {
	spacing := mmToPx(minSpacingMM)
	margin := spacing

	cols := (paperW - 2*margin + spacing) / (photoW + spacing)
	rows := (paperH - 2*margin + spacing) / (photoH + spacing)
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}

	layout := SheetLayout{
		PaperW: paperW,
		PaperH: paperH,
		Cols:   cols,
		Rows:   rows,
		Count:  cols * rows,
	}
	if cols > 0 {
		layout.SpacingX = spacing
		layout.MarginX = (paperW - cols*photoW - (cols-1)*spacing) / 2
		if layout.MarginX < spacing && cols > 1 {
			layout.SpacingX = (paperW - cols*photoW) / cols
			layout.MarginX = layout.SpacingX / 2
		}
	}
	if rows > 0 {
		layout.SpacingY = spacing
		layout.MarginY = (paperH - rows*photoH - (rows-1)*spacing) / 2
		if layout.MarginY < spacing && rows > 1 {
			layout.SpacingY = (paperH - rows*photoH) / rows
			layout.MarginY = layout.SpacingY / 2
		}
	}
	return layout
}

// Sheet tiles the photo onto the paper with cut guides along every photo
// edge. The guides run the full width and height of the sheet and the
// photos are drawn over them, so they stay visible only in the margins and
// gaps where the scissors go.
func Sheet(photo image.Image, spec standard.SpecPx, paper Paper) (*image.RGBA, SheetLayout) {
	layout := PlanSheet(paper, spec)
	canvas := image.NewRGBA(image.Rect(0, 0, layout.PaperW, layout.PaperH))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{white}, image.Point{}, draw.Src)
	if layout.Count == 0 {
		return canvas, layout
	}

	tile := normalizeTile(photo, spec)

	for _, x := range guidePositions(layout.MarginX, spec.W, layout.SpacingX, layout.Cols) {
		drawVLine(canvas, x)
	}
	for _, y := range guidePositions(layout.MarginY, spec.H, layout.SpacingY, layout.Rows) {
		drawHLine(canvas, y)
	}

	for row := 0; row < layout.Rows; row++ {
		for col := 0; col < layout.Cols; col++ {
			x := layout.MarginX + col*(spec.W+layout.SpacingX)
			y := layout.MarginY + row*(spec.H+layout.SpacingY)
			rect := image.Rect(x, y, x+spec.W, y+spec.H)
			draw.Draw(canvas, rect, tile, tile.Bounds().Min, draw.Src)
		}
	}
	return canvas, layout
}

// normalizeTile brings the photo to the spec dimensions if it is not there
// already.
func normalizeTile(photo image.Image, spec standard.SpecPx) image.Image {
	if photo == nil {
		blank := image.NewRGBA(image.Rect(0, 0, spec.W, spec.H))
		draw.Draw(blank, blank.Bounds(), &image.Uniform{white}, image.Point{}, draw.Src)
		return blank
	}
	b := photo.Bounds()
	if b.Dx() == spec.W && b.Dy() == spec.H {
		return photo
	}
	scaled := image.NewRGBA(image.Rect(0, 0, spec.W, spec.H))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), photo, b, xdraw.Over, nil)
	return scaled
}

func guidePositions(margin, size, spacing, n int) []int {
	set := make(map[int]struct{}, 2*n)
	for i := 0; i < n; i++ {
		start := margin + i*(size+spacing)
		set[start] = struct{}{}
		set[start+size] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func drawVLine(img *image.RGBA, x int) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.SetRGBA(x, y, guideGray)
	}
}

func drawHLine(img *image.RGBA, y int) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		img.SetRGBA(x, y, guideGray)
	}
}

func mmToPx(mm float64) int {
	return int(math.Round(mm * standard.DPI / mmPerInch))
}
