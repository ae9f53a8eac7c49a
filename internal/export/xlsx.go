package export

import (
	"fmt"
	"io"
	"time"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Bookings"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout  = "02.01.2006 15:04"
)

var headers = []string{"ID", "Item", "Booker", "Email", "Start", "End", "Status", "State"}

var statusColors = map[models.BookingStatus]string{
	models.StatusApproved: "#C6EFCE",
	models.StatusWaiting:  "#FFEB9C",
	models.StatusRejected: "#FFC7CE",
}

// FileName is the attachment name for an owner's export taken at now.
func FileName(ownerID int64, now time.Time) string {
	return fmt.Sprintf("bookings_%d_%s.xlsx", ownerID, now.Format("2006-01-02_15-04-05"))
}

// WriteBookings renders bookings as a single sheet workbook, one row per booking
// in the given order. The State column is the temporal view the booking falls in at now.
func WriteBookings(w io.Writer, bookings []*models.Booking, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
		_ = f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	styles := make(map[models.BookingStatus]int, len(statusColors))
	for status, color := range statusColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return fmt.Errorf("error creating status style: %w", err)
		}
		styles[status] = id
	}

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID,
			b.Item.Name,
			b.Booker.Name,
			b.Booker.Email,
			b.Start.Format(dateLayout),
			b.End.Format(dateLayout),
			string(b.Status),
			string(stateOf(b, now)),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		if style, ok := styles[b.Status]; ok {
			cell, _ := excelize.CoordinatesToCellName(7, row)
			_ = f.SetCellStyle(SheetName, cell, cell, style)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 8)
	_ = f.SetColWidth(SheetName, "B", "D", 25)
	_ = f.SetColWidth(SheetName, "E", "H", 18)
	_ = f.DeleteSheet("Sheet1")

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// stateOf picks the first non-ALL view that contains b.
func stateOf(b *models.Booking, now time.Time) models.BookingState {
	for _, st := range models.AllBookingStates[1:] {
		if st.Matches(*b, now) {
			return st
		}
	}
	return models.StateAll
}
