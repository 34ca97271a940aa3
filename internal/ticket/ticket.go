// Package ticket renders booking tickets as PDF documents with an embedded
// QR code carrying the booking reference.
package ticket

import (
	"bytes"
	"fmt"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// Render produces the PDF ticket for a confirmed booking. The QR code encodes
// the booking reference, which the entrance scanner resolves through the
// ticket verification endpoint.
func Render(booking *domain.Booking, showtime *domain.Showtime) ([]byte, error) {
	qrPNG, err := qrcode.Encode(booking.Reference, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "CineGrid Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, showtime.MovieTitle, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s - %s", showtime.TheaterName, showtime.Hall), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, showtime.StartTime.Format("Mon, Jan 2 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Seats: %s", FormatSeats(booking.Seats)), "", 1, "L", false, 0, "")

	if len(booking.FoodItems) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Food & Drinks", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)

		for _, item := range booking.FoodItems {
			pdf.CellFormat(0, 6, fmt.Sprintf("%dx %s", item.Quantity, item.Name), "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total: %s", booking.TotalPrice.StringFixed(2)), "", 1, "L", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 49, pdf.GetY()+4, 50, 50, false, opts, 0, "")

	pdf.SetY(pdf.GetY() + 58)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, booking.Reference, "", 1, "C", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// FormatSeats renders a seat list as compact labels like "A1, A2".
func FormatSeats(seats []domain.Coord) string {
	buf := new(bytes.Buffer)

	for i, seat := range seats {
		if i > 0 {
			buf.WriteString(", ")
		}

		// rows print as letters, columns one-based
		fmt.Fprintf(buf, "%c%d", 'A'+rune(seat.Row), seat.Col+1)
	}

	return buf.String()
}
