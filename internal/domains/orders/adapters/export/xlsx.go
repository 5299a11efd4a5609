package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
)

// XLSXContentType is the MIME type of the workbook download.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Orders"

type column struct {
	header string
	width  float64
	value  func(*domain.Order) any
}

var columns = []column{
	{"Name", 20, func(o *domain.Order) any { return o.Customer.Name }},
	{"Address", 40, func(o *domain.Order) any { return o.Customer.Address }},
	{"Mobile Number", 15, func(o *domain.Order) any { return o.Customer.Mobile }},
	{"Alternate Number", 15, func(o *domain.Order) any { return orDefault(o.Customer.AlternateMobile, "N/A") }},
	{"Payment Mode", 15, func(o *domain.Order) any { return string(o.PaymentMethod) }},
	{"Price (₹)", 12, func(o *domain.Order) any { return o.Price }},
	{"Order ID", 25, func(o *domain.Order) any { return o.OrderID }},
	{"Transaction ID", 30, func(o *domain.Order) any { return orDefault(o.TransactionID, "N/A") }},
	{"Coupon", 15, func(o *domain.Order) any { return orDefault(o.Coupon, "Not Applied") }},
	{"Status", 12, func(o *domain.Order) any { return string(o.Status) }},
	{"Date", 25, func(o *domain.Order) any { return DisplayDate(o) }},
}

// WriteXLSX renders orders into a single-sheet workbook with a bold header and thin borders.
func WriteXLSX(w io.Writer, orders []*domain.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return err
	}

	for i, col := range columns {
		if err := setCell(f, i+1, 1, col.header, headerStyle); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return err
		}
	}
	for r, order := range orders {
		for c, col := range columns {
			if err := setCell(f, c+1, r+2, col.value(order), cellStyle); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

func setCell(f *excelize.File, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, cell, cell, style)
}

// DisplayDate formats the creation time the way the admin UI shows it, e.g. "1/5/2024, 10:00:00 am".
func DisplayDate(o *domain.Order) string {
	return o.CreatedAtLocal().Format("2/1/2006, 3:04:05 pm")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
