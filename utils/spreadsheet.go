package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/tealeg/xlsx"
)

// PinCodeRow is one parsed line of a bulk import
type PinCodeRow struct {
	Code           string
	DeliveryTime   int
	Unit           string
	IsCOD          bool
	ShippingCharge float64
	FreeAbove      float64
}

// RowError reports a rejected import line (1-based, header included)
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// readRows returns the rows of the first sheet of an xlsx file or of a csv file
func readRows(data []byte, filename string) ([][]string, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		return csv.NewReader(bytes.NewReader(data)).ReadAll()
	}
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	var rows [][]string
	for _, row := range file.Sheets[0].Rows {
		var cells []string
		for _, cell := range row.Cells {
			cells = append(cells, strings.TrimSpace(cell.Value))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// parseCOD treats anything but an explicit no as cash on delivery
func parseCOD(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "false", "no", "n":
		return false
	}
	return true
}

// ParsePinCodeSheet reads rows with the header code, deliveryTime, unit, isCOD and the
// optional shippingCharge, freeAbove.
// Header names are matched case-insensitively and columns may come in any order.
func ParsePinCodeSheet(data []byte, filename string) ([]PinCodeRow, []RowError, error) {
	rows, err := readRows(data, filename)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), "_", ""))] = i
	}
	codeCol, ok := cols["code"]
	if !ok {
		if codeCol, ok = cols["pincode"]; !ok {
			if codeCol, ok = cols["pin"]; !ok {
				return nil, nil, fmt.Errorf("missing code column")
			}
		}
	}
	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var parsed []PinCodeRow
	var rejected []RowError
	for n, row := range rows[1:] {
		line := n + 2
		if codeCol >= len(row) || strings.TrimSpace(row[codeCol]) == "" {
			continue
		}
		code := strings.TrimSuffix(strings.TrimSpace(row[codeCol]), ".0")

		deliveryTime := 1
		if raw := get(row, "deliverytime"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v <= 0 {
				rejected = append(rejected, RowError{Row: line, Message: "invalid deliveryTime " + raw})
				continue
			}
			deliveryTime = int(v)
		}

		unit := strings.ToLower(get(row, "unit"))
		if unit == "" {
			unit = models.DeliveryUnitDays
		}
		if unit != models.DeliveryUnitDays && unit != models.DeliveryUnitHours && unit != models.DeliveryUnitMinutes {
			rejected = append(rejected, RowError{Row: line, Message: "invalid unit " + unit})
			continue
		}

		var money [2]float64
		bad := false
		for i, col := range []string{"shippingcharge", "freeabove"} {
			raw := get(row, col)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				rejected = append(rejected, RowError{Row: line, Message: "invalid " + col + " " + raw})
				bad = true
				break
			}
			money[i] = v
		}
		if bad {
			continue
		}

		parsed = append(parsed, PinCodeRow{
			Code:           code,
			DeliveryTime:   deliveryTime,
			Unit:           unit,
			IsCOD:          parseCOD(get(row, "iscod")),
			ShippingCharge: money[0],
			FreeAbove:      money[1],
		})
	}
	return parsed, rejected, nil
}

// WriteOrdersSheet renders the admin order export
func WriteOrdersSheet(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range []string{"Order", "Date", "Customer", "Email", "Phone", "City", "Postal Code", "Items", "Payment", "Paid", "Status", "Items Total", "Discount", "Shipping", "Tax", "Total"} {
		cell := header.AddCell()
		cell.SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		qty := 0
		for _, it := range o.OrderItems {
			qty += it.Qty
		}
		row.AddCell().SetString(o.DisplayID)
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(o.ShippingAddress.Name)
		row.AddCell().SetString(o.ShippingAddress.Email)
		row.AddCell().SetString(o.ShippingAddress.Phone)
		row.AddCell().SetString(o.ShippingAddress.City)
		row.AddCell().SetString(o.ShippingAddress.PostalCode)
		row.AddCell().SetInt(qty)
		row.AddCell().SetString(o.PaymentMethod)
		row.AddCell().SetBool(o.IsPaid)
		row.AddCell().SetString(o.Status)
		row.AddCell().SetFloat(o.ItemsPrice)
		row.AddCell().SetFloat(o.DiscountPrice)
		row.AddCell().SetFloat(o.ShippingPrice)
		row.AddCell().SetFloat(o.TaxPrice)
		row.AddCell().SetFloat(o.TotalPrice)
	}

	return file.Write(w)
}
