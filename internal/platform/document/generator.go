// Package document renders finalized prescriptions into printable PDF
// documents. The layout is coordinate-exact: header band height, QR size and
// signature box size are fixed properties that printed/scanned medical
// workflows depend on, so they are constants here, not styling.
package document

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	margin       = 15.0
	contentWidth = pageWidth - 2*margin

	headerHeight   = 45.0
	qrSize         = 25.0
	patientBlockH  = 35.0
	medicationBoxH = 25.0
	medicationGap  = 3.0
	footerOffset   = 50.0 // footer band starts this far above the bottom edge
	signatureBoxW  = 60.0
	signatureBoxH  = 30.0
	lineHeight     = 5.0
)

// Doctor is the prescriber block rendered in the header band.
type Doctor struct {
	FullName        string
	Specialty       string
	LicenseNumber   string
	PracticeName    string
	PracticeAddress string
	Phone           string
	Email           string
}

// Patient is the patient identity block.
type Patient struct {
	FullName  string
	BirthDate time.Time
	AgeYears  int
	Gender    string
	Address   string
	Phone     string
	WeightKG  *float64
}

// Item is one numbered medication box.
type Item struct {
	Name            string
	GenericName     string
	Dosage          string
	Form            string
	Posology        string
	Duration        string
	Quantity        int
	Unit            string
	DoNotSubstitute bool
	Instructions    string
}

// Prescription is the assembler input: a fully-populated, finalized record.
// The caller guarantees the preconditions (non-empty item list, captured
// signature); Render still refuses obviously broken input rather than emit a
// partial document.
type Prescription struct {
	Number          string
	Date            time.Time
	Doctor          Doctor
	Patient         Patient
	Diagnosis       string
	Items           []Item
	Recommendations string
	Renewals        int
	SignaturePNG    []byte
	QRPayload       string
	BarcodePayload  string
}

// Filename returns the deterministic download name:
// Ordonnance_<patient full name, spaces→underscores>_<YYYY-MM-DD>.pdf
func Filename(patientFullName string, date time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(patientFullName), " ", "_")
	return fmt.Sprintf("Ordonnance_%s_%s.pdf", name, date.Format("2006-01-02"))
}

// Generator renders prescriptions. It holds only immutable configuration and
// is safe for concurrent use.
type Generator struct {
	logger zerolog.Logger
}

func NewGenerator(logger zerolog.Logger) *Generator {
	return &Generator{logger: logger}
}

// Render produces the PDF bytes for one prescription.
func (g *Generator) Render(p *Prescription) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("document: prescription is nil")
	}
	if len(p.Items) == 0 {
		return nil, fmt.Errorf("document: prescription has no medications")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	g.drawHeader(pdf, tr, &p.Doctor)
	g.drawIdentification(pdf, tr, p)
	y := g.drawPatientBlock(pdf, tr, &p.Patient, headerHeight+35.0)
	y = g.drawDiagnosis(pdf, tr, p.Diagnosis, y)
	y = g.drawMedications(pdf, tr, p.Items, y)
	g.drawRecommendations(pdf, tr, p.Recommendations, y)
	g.drawFooter(pdf, tr, p)
	g.drawBarcode(pdf, tr, p.BarcodePayload)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("document: render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader paints the solid band spanning 0–45mm with the doctor identity
// on the left and the practice details right-aligned, all in white.
func (g *Generator) drawHeader(pdf *fpdf.Fpdf, tr func(string) string, d *Doctor) {
	pdf.SetFillColor(0, 84, 147)
	pdf.Rect(0, 0, pageWidth, headerHeight, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(margin, 12)
	pdf.CellFormat(contentWidth/2, 7, tr(d.FullName), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(margin, 20)
	pdf.CellFormat(contentWidth/2, 5, tr(d.Specialty), "", 0, "L", false, 0, "")
	pdf.SetXY(margin, 25)
	pdf.CellFormat(contentWidth/2, 5, tr("N° "+d.LicenseNumber), "", 0, "L", false, 0, "")

	right := []string{d.PracticeName, d.PracticeAddress, d.Phone, d.Email}
	y := 12.0
	for i, line := range right {
		if line == "" {
			continue
		}
		style := ""
		if i == 0 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetXY(margin+contentWidth/2, y)
		pdf.CellFormat(contentWidth/2, 5, tr(line), "", 0, "R", false, 0, "")
		y += 5.5
	}
}

// drawIdentification renders the strip at y=50: QR code at the left margin
// and the centered title, prescription number and date.
func (g *Generator) drawIdentification(pdf *fpdf.Fpdf, tr func(string) string, p *Prescription) {
	const stripY = 50.0

	g.drawQR(pdf, tr, p.QRPayload, margin, stripY)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(0, stripY+4)
	pdf.CellFormat(pageWidth, 7, tr("ORDONNANCE MÉDICALE"), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(0, stripY+12)
	pdf.CellFormat(pageWidth, 5, tr("N° "+p.Number), "", 0, "C", false, 0, "")

	pdf.SetXY(0, stripY+18)
	pdf.CellFormat(pageWidth, 5, tr(formatDate(p.Date)), "", 0, "C", false, 0, "")
}

// drawQR places a 25×25mm QR at (x, y). An encoding failure never aborts the
// document: the payload is printed as plain text in the same slot, matching
// the barcode fallback.
func (g *Generator) drawQR(pdf *fpdf.Fpdf, tr func(string) string, payload string, x, y float64) {
	encoded, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		g.logger.Warn().Err(err).Msg("qr encoding failed, falling back to text")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(x, y+qrSize/2)
		pdf.CellFormat(qrSize, 4, tr(payload), "", 0, "L", false, 0, "")
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(encoded))
	pdf.ImageOptions("qr", x, y, qrSize, qrSize, false, opts, 0, "")
}

// drawPatientBlock fills a content-width rectangle with the section header
// and four detail lines, returning the y below the block.
func (g *Generator) drawPatientBlock(pdf *fpdf.Fpdf, tr func(string) string, pt *Patient, y float64) float64 {
	pdf.SetFillColor(235, 240, 246)
	pdf.Rect(margin, y, contentWidth, patientBlockH, "F")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(margin+3, y+3)
	pdf.CellFormat(contentWidth-6, 5, "PATIENT", "", 0, "L", false, 0, "")

	demo := fmt.Sprintf("Né(e) le %s (%d ans) — %s", formatDate(pt.BirthDate), pt.AgeYears, pt.Gender)
	contact := "Tél : " + pt.Phone
	if pt.WeightKG != nil {
		contact = fmt.Sprintf("%s — Poids : %.0f kg", contact, *pt.WeightKG)
	}

	lines := []string{pt.FullName, demo, pt.Address, contact}
	pdf.SetFont("Helvetica", "", 10)
	ly := y + 10
	for _, line := range lines {
		pdf.SetXY(margin+3, ly)
		pdf.CellFormat(contentWidth-6, 5, tr(line), "", 0, "L", false, 0, "")
		ly += 6
	}

	return y + patientBlockH + 5
}

// drawDiagnosis renders the optional bold-label diagnosis line.
func (g *Generator) drawDiagnosis(pdf *fpdf.Fpdf, tr func(string) string, diagnosis string, y float64) float64 {
	if diagnosis == "" {
		return y
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(margin, y)
	label := "Diagnostic : "
	pdf.CellFormat(pdf.GetStringWidth(label), 5, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(diagnosis), "", 0, "L", false, 0, "")
	return y + 8
}

// drawMedications renders the numbered boxes in list order, paginating when
// a box would collide with the footer band.
func (g *Generator) drawMedications(pdf *fpdf.Fpdf, tr func(string) string, items []Item, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(margin, y)
	pdf.CellFormat(contentWidth, 5, tr("PRESCRIPTIONS"), "", 0, "L", false, 0, "")
	y += 8

	footerTop := pageHeight - footerOffset
	for i, item := range items {
		if y+medicationBoxH > footerTop {
			pdf.AddPage()
			y = margin + 5
		}
		g.drawMedicationBox(pdf, tr, i+1, &item, y)
		y += medicationBoxH + medicationGap
	}
	return y
}

func (g *Generator) drawMedicationBox(pdf *fpdf.Fpdf, tr func(string) string, n int, item *Item, y float64) {
	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(margin, y, contentWidth, medicationBoxH, "D")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(margin+3, y+3)
	title := fmt.Sprintf("%d. %s", n, item.Name)
	if item.Dosage != "" {
		title += " " + item.Dosage
	}
	pdf.CellFormat(contentWidth-60, 5, tr(title), "", 0, "L", false, 0, "")

	if item.DoNotSubstitute {
		pdf.SetTextColor(200, 0, 0)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(margin+3, y+3)
		pdf.CellFormat(contentWidth-6, 5, tr("NON SUBSTITUABLE"), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	sub := item.Form
	if item.GenericName != "" {
		sub = fmt.Sprintf("%s — %s", item.Form, item.GenericName)
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(margin+3, y+8.5)
	pdf.CellFormat(contentWidth-6, 4, tr(sub), "", 0, "L", false, 0, "")

	pdf.SetXY(margin+3, y+13)
	pdf.CellFormat(contentWidth-6, 4, tr("Posologie : "+item.Posology), "", 0, "L", false, 0, "")

	qty := fmt.Sprintf("Durée : %s — Quantité : %d %s", item.Duration, item.Quantity, item.Unit)
	pdf.SetXY(margin+3, y+17.5)
	pdf.CellFormat(contentWidth-6, 4, tr(qty), "", 0, "L", false, 0, "")

	if item.Instructions != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetXY(margin+3, y+21.5)
		pdf.CellFormat(contentWidth-6, 3.5, tr(item.Instructions), "", 0, "L", false, 0, "")
	}
}

// drawRecommendations word-wraps the optional recommendations body across
// the content width; the cursor advances by wrapped-line-count × line-height.
// Like the medication boxes, it breaks to a fresh page rather than drawing
// into the footer band.
func (g *Generator) drawRecommendations(pdf *fpdf.Fpdf, tr func(string) string, text string, y float64) float64 {
	if text == "" {
		return y
	}
	footerTop := pageHeight - footerOffset
	if y+8+lineHeight > footerTop {
		pdf.AddPage()
		y = margin + 5
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(margin, y+2)
	pdf.CellFormat(contentWidth, 5, tr("Recommandations :"), "", 0, "L", false, 0, "")
	y += 8

	pdf.SetFont("Helvetica", "", 9)
	lines := pdf.SplitText(tr(text), contentWidth)
	for start := 0; start < len(lines); {
		fit := int((footerTop - y) / lineHeight)
		if fit < 1 {
			pdf.AddPage()
			y = margin + 5
			continue
		}
		end := start + fit
		if end > len(lines) {
			end = len(lines)
		}
		pdf.SetXY(margin, y)
		pdf.MultiCell(contentWidth, lineHeight, strings.Join(lines[start:end], "\n"), "", "L", false)
		y += float64(end-start) * lineHeight
		start = end
	}
	return y
}

// drawFooter anchors the renewal note and the signature box 50mm above the
// bottom edge.
func (g *Generator) drawFooter(pdf *fpdf.Fpdf, tr func(string) string, p *Prescription) {
	y := pageHeight - footerOffset

	renewal := "Non renouvelable"
	if p.Renewals > 0 {
		renewal = fmt.Sprintf("Renouvelable %d fois", p.Renewals)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(margin, y+10)
	pdf.CellFormat(contentWidth/2, 5, tr(renewal), "", 0, "L", false, 0, "")

	boxX := pageWidth - margin - signatureBoxW
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(boxX, y)
	pdf.CellFormat(signatureBoxW, 4, tr("Signature et cachet"), "", 0, "C", false, 0, "")

	boxY := y + 5
	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(boxX, boxY, signatureBoxW, signatureBoxH, "D")

	if len(p.SignaturePNG) > 0 {
		g.embedSignature(pdf, p.SignaturePNG, boxX, boxY)
	}
}

// embedSignature scales the captured raster into the outlined box with 2mm
// padding, preserving aspect ratio.
func (g *Generator) embedSignature(pdf *fpdf.Fpdf, data []byte, boxX, boxY float64) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		g.logger.Warn().Err(err).Msg("signature image unreadable, leaving box empty")
		return
	}

	const pad = 2.0
	availW := signatureBoxW - 2*pad
	availH := signatureBoxH - 2*pad
	scale := availW / float64(cfg.Width)
	if s := availH / float64(cfg.Height); s < scale {
		scale = s
	}
	w := float64(cfg.Width) * scale
	h := float64(cfg.Height) * scale
	x := boxX + (signatureBoxW-w)/2
	y := boxY + (signatureBoxH-h)/2

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(data))
	pdf.ImageOptions("signature", x, y, w, h, false, opts, 0, "")
}

// drawBarcode renders a Code128 strip centered near the bottom of the page
// with the human-readable payload below the bars. Encoding failure falls
// back to the plain-text payload at the same position; the document always
// completes.
func (g *Generator) drawBarcode(pdf *fpdf.Fpdf, tr func(string) string, payload string) {
	const (
		barW  = 80.0
		barH  = 8.0
		barY  = pageHeight - 14.0
		textY = pageHeight - 5.0
	)
	x := (pageWidth - barW) / 2

	img, err := g.encodeBarcode(payload)
	if err != nil {
		g.logger.Warn().Err(err).Msg("barcode encoding failed, falling back to text")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(0, barY)
		pdf.CellFormat(pageWidth, 5, tr(payload), "", 0, "C", false, 0, "")
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("barcode", opts, bytes.NewReader(img))
	pdf.ImageOptions("barcode", x, barY, barW, barH, false, opts, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(0, textY)
	pdf.CellFormat(pageWidth, 3, tr(payload), "", 0, "C", false, 0, "")
}

func (g *Generator) encodeBarcode(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty barcode payload")
	}
	code, err := code128.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("code128 encode: %w", err)
	}
	scaled, err := barcode.Scale(code, 960, 96)
	if err != nil {
		return nil, fmt.Errorf("barcode scale: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("barcode png: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
