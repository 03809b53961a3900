package receipt

import (
	"bytes"
	"fmt"
	"image/png"
	"net/url"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"

	"github.com/iho/sharefund/internal/domain"
)

const (
	cardWidth  = 450
	cardHeight = 640
	qrSize     = 360

	// MinWidth and MaxWidth bound the rendered card width.
	MinWidth = 150
	MaxWidth = cardWidth
)

var primaryGreen = [3]float64{0.09, 0.47, 0.27}

// Payload is the text encoded in an investment's QR code.
func Payload(inv *domain.Investment) string {
	q := url.Values{}
	q.Set("project", inv.ProjectID)
	q.Set("shares", fmt.Sprintf("%d", inv.SharesPurchased))
	q.Set("amount", inv.AmountInvested.StringFixed(2))
	return fmt.Sprintf("sharefund://investment/%s?%s", url.PathEscape(inv.ID), q.Encode())
}

// QRCode renders the payload of inv as a square PNG.
func QRCode(inv *domain.Investment, size int) ([]byte, error) {
	return qrcode.Encode(Payload(inv), qrcode.Medium, size)
}

// Card renders a printable receipt for inv. width is clamped to
// [MinWidth, MaxWidth]; 0 means MaxWidth.
func Card(inv *domain.Investment, projectTitle string, width uint) ([]byte, error) {
	qr, err := qrcode.New(Payload(inv), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	dc := gg.NewContext(cardWidth, cardHeight)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Header
	dc.SetRGB(primaryGreen[0], primaryGreen[1], primaryGreen[2])
	dc.DrawRectangle(0, 0, cardWidth, 56)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored("SHAREFUND INVESTMENT RECEIPT", cardWidth/2, 28, 0.5, 0.5)

	yPos := 72.0
	dc.DrawImage(qr.Image(qrSize), (cardWidth-qrSize)/2, int(yPos))
	yPos += qrSize + 30

	dc.SetRGB(0.1, 0.1, 0.1)
	lines := []string{
		projectTitle,
		fmt.Sprintf("Investment: %s", inv.ID),
		fmt.Sprintf("Shares: %d x %s", inv.SharesPurchased, inv.PricePerShare.StringFixed(2)),
		fmt.Sprintf("Amount: %s", inv.AmountInvested.StringFixed(2)),
		fmt.Sprintf("Expected annual return: %s", inv.ExpectedAnnualReturn.StringFixed(2)),
		fmt.Sprintf("Date: %s", inv.CreatedAt.UTC().Format("2006-01-02 15:04 MST")),
	}
	for _, line := range lines {
		dc.DrawStringAnchored(line, cardWidth/2, yPos, 0.5, 0.5)
		yPos += 24
	}

	img := dc.Image()
	if w := clampWidth(width); w < cardWidth {
		img = resize.Resize(w, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func clampWidth(width uint) uint {
	switch {
	case width == 0 || width > MaxWidth:
		return MaxWidth
	case width < MinWidth:
		return MinWidth
	default:
		return width
	}
}
