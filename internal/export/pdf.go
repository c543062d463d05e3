package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points (A4).
const (
	pdfMargin     = 40.0
	pdfTitleSize  = 16.0
	pdfBulletSize = 11.0
	pdfTableSize  = 10.0
	pdfRowHeight  = 18.0
	pdfChartH     = 260.0
)

var (
	headerFill = [3]int{79, 70, 229}
	stripeFill = [3]int{241, 245, 249}
	lineColor  = [3]int{234, 88, 12}
)

// ChartKind selects how a Chart is drawn.
type ChartKind int

const (
	// Columns draws vertical bars per label, with an optional line overlay.
	Columns ChartKind = iota
	// HorizontalBars draws one horizontal bar per label.
	HorizontalBars
)

// Chart is a simple bar chart drawn with vector primitives.
type Chart struct {
	Caption string
	Kind    ChartKind
	Labels  []string
	Bars    []float64
	Line    []float64
}

// ChartImage is an already rendered chart (PNG) placed with a caption.
type ChartImage struct {
	Caption string
	PNG     []byte
}

// Report is a titled document with summary bullets followed by tables,
// vector charts and chart images, in that order.
type Report struct {
	Title        string
	SummaryLines []string
	Tables       []Table
	Charts       []Chart
	Images       []ChartImage
}

type pdfDoc struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	pageW float64
	pageH float64
	y     float64
}

func newPDF() *pdfDoc {
	p := fpdf.New("P", "pt", "A4", "")
	p.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	p.SetAutoPageBreak(false, pdfMargin)
	p.AddPage()
	w, h := p.GetPageSize()
	return &pdfDoc{
		pdf:   p,
		tr:    p.UnicodeTranslatorFromDescriptor(""),
		pageW: w,
		pageH: h,
		y:     pdfMargin,
	}
}

func (d *pdfDoc) header(title string, lines []string) {
	d.pdf.SetTitle(title, true)
	d.pdf.SetFont("Helvetica", "B", pdfTitleSize)
	d.pdf.Text(pdfMargin, d.y, d.tr(title))
	d.y += 18

	if len(lines) == 0 {
		return
	}
	d.pdf.SetFont("Helvetica", "", pdfBulletSize)
	for _, l := range lines {
		d.pdf.Text(pdfMargin, d.y, d.tr("• "+l))
		d.y += 14
	}
	d.y += 8
}

func (d *pdfDoc) newPage() {
	d.pdf.AddPage()
	d.y = pdfMargin
}

func (d *pdfDoc) fit(s string, w float64) string {
	s = d.tr(s)
	if d.pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && d.pdf.GetStringWidth(string(r)+"...") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (d *pdfDoc) output(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

// WriteTablePDF renders t as a striped table under its title and summary.
// The header row repeats on every page.
func WriteTablePDF(w io.Writer, t Table) error {
	d := newPDF()
	d.header(t.Title, t.SummaryLines)
	d.table(t)
	return d.output(w)
}

func (d *pdfDoc) table(t Table) {
	if len(t.Columns) == 0 {
		return
	}

	colW := (d.pageW - 2*pdfMargin) / float64(len(t.Columns))
	drawHeader := func() {
		d.pdf.SetFont("Helvetica", "B", pdfTableSize)
		d.pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		d.pdf.SetTextColor(255, 255, 255)
		d.pdf.SetXY(pdfMargin, d.y)
		for _, c := range t.Columns {
			d.pdf.CellFormat(colW, pdfRowHeight, d.fit(c, colW-6), "", 0, "L", true, 0, "")
		}
		d.y += pdfRowHeight
		d.pdf.SetFont("Helvetica", "", pdfTableSize)
		d.pdf.SetTextColor(17, 24, 39)
	}
	if d.y+2*pdfRowHeight > d.pageH-pdfMargin {
		d.newPage()
	}
	drawHeader()

	for i, row := range t.Rows {
		if d.y+pdfRowHeight > d.pageH-pdfMargin {
			d.newPage()
			drawHeader()
		}
		fill := i%2 == 1
		if fill {
			d.pdf.SetFillColor(stripeFill[0], stripeFill[1], stripeFill[2])
		}
		d.pdf.SetXY(pdfMargin, d.y)
		for _, c := range t.Columns {
			d.pdf.CellFormat(colW, pdfRowHeight, d.fit(cellText(row[c]), colW-6), "", 0, "L", fill, 0, "")
		}
		d.y += pdfRowHeight
	}
	d.y += 12
}

// WriteReportPDF renders r: title and summary bullets, then each table
// (under its own title), each vector chart and each chart image with its
// caption. A chart or image that does not fit on the current page starts a
// new one.
func WriteReportPDF(w io.Writer, r Report) error {
	d := newPDF()
	d.header(r.Title, r.SummaryLines)

	for _, t := range r.Tables {
		if t.Title != "" {
			if d.y+pdfRowHeight*3 > d.pageH-pdfMargin {
				d.newPage()
			}
			d.pdf.SetFont("Helvetica", "B", 12)
			d.pdf.SetTextColor(17, 24, 39)
			d.y += 4
			d.pdf.Text(pdfMargin, d.y, d.tr(t.Title))
			d.y += 10
		}
		d.table(t)
	}

	for _, ch := range r.Charts {
		if d.y+pdfChartH+60 > d.pageH {
			d.newPage()
		}
		d.chart(ch, pdfMargin, d.y, d.pageW-2*pdfMargin, pdfChartH)
		d.y += pdfChartH + 18
		d.caption(ch.Caption)
	}

	for i, img := range r.Images {
		if err := d.image(fmt.Sprintf("chart-%d", i), img); err != nil {
			return err
		}
	}
	return d.output(w)
}

func (d *pdfDoc) caption(text string) {
	if text == "" {
		return
	}
	d.pdf.SetFont("Helvetica", "I", 10)
	d.pdf.SetTextColor(17, 24, 39)
	d.pdf.Text(pdfMargin, d.y, d.tr(text))
	d.y += 26
}

// image places img scaled to the content width (never enlarged), keeping its
// aspect ratio.
func (d *pdfDoc) image(name string, img ChartImage) error {
	if len(img.PNG) == 0 {
		return fmt.Errorf("chart image %q: empty PNG", img.Caption)
	}
	info := d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.PNG))
	if info == nil || !d.pdf.Ok() {
		return fmt.Errorf("chart image %q: %w", img.Caption, d.pdf.Error())
	}

	maxW := d.pageW - 2*pdfMargin
	maxH := d.pageH - 2*pdfMargin - 40
	w, h := info.Width(), info.Height()
	if w > maxW {
		h, w = h*maxW/w, maxW
	}
	if h > maxH {
		w, h = w*maxH/h, maxH
	}

	if d.y+h+40 > d.pageH-pdfMargin {
		d.newPage()
	}
	d.pdf.ImageOptions(name, pdfMargin, d.y, w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	d.y += h + 18
	d.caption(img.Caption)
	return nil
}

func (d *pdfDoc) chart(ch Chart, x, y, w, h float64) {
	d.pdf.SetDrawColor(209, 213, 219)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Rect(x, y, w, h, "D")

	n := len(ch.Labels)
	if n == 0 {
		d.pdf.SetFont("Helvetica", "I", 10)
		d.pdf.Text(x+10, y+h/2, "No data")
		return
	}
	peak := 0.0
	for _, v := range append(append([]float64{}, ch.Bars...), ch.Line...) {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	switch ch.Kind {
	case HorizontalBars:
		d.horizontalBars(ch, x, y, w, h, peak)
	default:
		d.columns(ch, x, y, w, h, peak)
	}
}

func (d *pdfDoc) columns(ch Chart, x, y, w, h, peak float64) {
	const padL, padB, padT = 28.0, 22.0, 12.0
	plotX, plotY := x+padL, y+padT
	plotW, plotH := w-padL-8, h-padT-padB
	n := len(ch.Labels)
	slot := plotW / float64(n)

	d.pdf.SetFont("Helvetica", "", 7)
	d.pdf.SetTextColor(75, 85, 99)
	d.pdf.Text(x+4, plotY+6, formatTick(peak))
	d.pdf.Text(x+4, plotY+plotH, "0")
	d.pdf.SetDrawColor(156, 163, 175)
	d.pdf.Line(plotX, plotY+plotH, plotX+plotW, plotY+plotH)

	d.pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	step := int(math.Ceil(float64(n) / 15))
	for i, lab := range ch.Labels {
		if i < len(ch.Bars) && ch.Bars[i] > 0 {
			bh := ch.Bars[i] / peak * plotH
			d.pdf.Rect(plotX+float64(i)*slot+slot*0.15, plotY+plotH-bh, slot*0.7, bh, "F")
		}
		if i%step == 0 {
			d.pdf.Text(plotX+float64(i)*slot, plotY+plotH+10, d.fit(lab, slot*float64(step)))
		}
	}

	if len(ch.Line) > 1 {
		d.pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		d.pdf.SetLineWidth(1.5)
		px := func(i int) float64 { return plotX + float64(i)*slot + slot/2 }
		py := func(v float64) float64 { return plotY + plotH - v/peak*plotH }
		for i := 1; i < len(ch.Line) && i < n; i++ {
			d.pdf.Line(px(i-1), py(ch.Line[i-1]), px(i), py(ch.Line[i]))
		}
		d.pdf.SetLineWidth(0.5)
	}
}

func (d *pdfDoc) horizontalBars(ch Chart, x, y, w, h, peak float64) {
	const labelW, pad = 120.0, 10.0
	n := len(ch.Labels)
	slot := (h - 2*pad) / float64(n)
	plotX := x + labelW
	plotW := w - labelW - 40

	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetTextColor(55, 65, 81)
	d.pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	for i, lab := range ch.Labels {
		top := y + pad + float64(i)*slot
		mid := top + slot/2 + 3
		d.pdf.Text(x+6, mid, d.fit(lab, labelW-12))
		if i < len(ch.Bars) {
			bw := ch.Bars[i] / peak * plotW
			if bw > 0 {
				d.pdf.Rect(plotX, top+slot*0.15, bw, slot*0.7, "F")
			}
			d.pdf.Text(plotX+bw+4, mid, formatTick(ch.Bars[i]))
		}
	}
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
