package utils

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/jung-kurt/gofpdf"
)

func pdfHeader(pdf *gofpdf.Fpdf, title string, order *models.Order) {
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, AppName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(70, 8, "Order: "+order.DisplayID)
	pdf.Cell(80, 8, "Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(8)
	pdf.Cell(70, 8, "Payment: "+order.PaymentMethod)
	pdf.Cell(80, 8, "Status: "+order.Status)
	pdf.Ln(10)
}

func pdfAddress(pdf *gofpdf.Fpdf, label string, addr models.ShippingAddress) {
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, label)
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 7, addr.Name)
	pdf.Ln(6)
	pdf.Cell(100, 7, addr.Street)
	pdf.Ln(6)
	pdf.Cell(100, 7, addr.City+" - "+addr.PostalCode+", "+addr.Country)
	pdf.Ln(6)
	pdf.Cell(100, 7, "Phone: "+addr.Phone)
	pdf.Ln(10)
}

func itemLabel(item models.OrderItem) string {
	if len(item.Variant) == 0 {
		return item.Name
	}
	return item.Name + " (" + item.Variant.Label() + ")"
}

// RenderInvoice produces the customer invoice PDF
func RenderInvoice(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdfHeader(pdf, "INVOICE", order)
	pdfAddress(pdf, "Billed To:", order.ShippingAddress)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.OrderItems {
		pdf.CellFormat(80, 8, itemLabel(item), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", Round2(item.Price*float64(item.Qty))), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		if item.SerialNumber != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(160, 6, item.SerialType+": "+item.SerialNumber, "", 0, "L", false, 0, "")
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 11)
		}
	}

	pdf.Ln(4)
	summary := []struct {
		label string
		value float64
	}{
		{"Items:", order.ItemsPrice},
		{"Discount:", -order.DiscountPrice},
		{"Shipping:", order.ShippingPrice},
		{"Tax:", order.TaxPrice},
		{"Total:", order.TotalPrice},
	}
	for _, row := range summary {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(130, 8, row.label, "", 0, "R", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", row.value), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderDeliverySlip produces the packing slip attached to the parcel
func RenderDeliverySlip(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()
	pdfHeader(pdf, "DELIVERY SLIP", order)
	pdfAddress(pdf, "Ship To:", order.ShippingAddress)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 7, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, item := range order.OrderItems {
		pdf.CellFormat(95, 7, itemLabel(item), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, strconv.Itoa(item.Qty), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)
	if order.PaymentMethod == models.PaymentMethodCOD && !order.IsPaid {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(100, 8, fmt.Sprintf("Collect on delivery: %.2f", order.TotalPrice))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render delivery slip: %w", err)
	}
	return buf.Bytes(), nil
}
