// Package receipt формирует PDF-квитанции по заказам.
package receipt

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/mmeshcher/storefront-system/internal/model"
)

const (
	companyName    = "Maki E-Commerce"
	companyAddress = "123 Shopping Street, E-Commerce City"
	companyContact = "Phone: +1-234-567-8900 | Email: support@maki-ecommerce.com"
)

// paymentMethodLabel возвращает отображаемое название способа оплаты.
func paymentMethodLabel(m model.PaymentMethod) string {
	switch m {
	case model.PaymentMethodCard:
		return "Credit Card"
	case model.PaymentMethodCOD:
		return "Cash on Delivery"
	default:
		return "In-store Pickup"
	}
}

// FormatAmount форматирует сумму в сентаво как денежную строку
// с разделителями тысяч, например "PHP 12,345.67".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	major := fmt.Sprintf("%d", cents/100)
	var b strings.Builder
	for i, ch := range major {
		if i > 0 && (len(major)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	return fmt.Sprintf("PHP %s%s.%02d", sign, b.String(), cents%100)
}

func statusLabel(s model.OrderStatus) string {
	str := string(s)
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

// Generate формирует PDF-квитанцию заказа и записывает её в w.
// Квитанция корректна и для заказа без позиций: шапка, пустая таблица и итог.
func Generate(order *model.Order, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 25)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, "Thank you for your purchase!", "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, "For questions or concerns, please contact our customer service.", "", 1, "C", false, 0, "")
	})

	pdf.AddPage()

	// Шапка
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "RECEIPT", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, companyAddress, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, companyContact, "", 1, "C", false, 0, "")

	pdf.Ln(4)
	left, _, right, _ := pdf.GetMargins()
	pageWidth, _ := pdf.GetPageSize()
	pdf.Line(left, pdf.GetY(), pageWidth-right, pdf.GetY())
	pdf.Ln(4)

	// Реквизиты заказа
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, fmt.Sprintf("Receipt No: %d", order.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Date: "+order.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Данные покупателя
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, "Customer Information:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Name: "+order.Customer.FullName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Email: "+order.Customer.Email, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Phone: "+order.Customer.Phone, "", 1, "L", false, 0, "")
	if order.PaymentMethod == model.PaymentMethodCOD {
		address := fmt.Sprintf("Address: %s, %s, %s",
			order.Customer.Address, order.Customer.City, order.Customer.PostalCode)
		pdf.CellFormat(0, 5, address, "", 1, "L", false, 0, "")
	}
	if order.Customer.Notes != "" {
		pdf.CellFormat(0, 5, "Notes: "+order.Customer.Notes, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// Данные оплаты
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, "Payment Information:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Payment Method: "+paymentMethodLabel(order.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Payment Status: "+statusLabel(order.Status), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Таблица позиций
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, "Order Items:", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	const (
		nameWidth   = 80.0
		qtyWidth    = 25.0
		priceWidth  = 40.0
		amountWidth = 40.0
	)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(nameWidth, 6, "Item", "B", 0, "L", false, 0, "")
		pdf.CellFormat(qtyWidth, 6, "Quantity", "B", 0, "R", false, 0, "")
		pdf.CellFormat(priceWidth, 6, "Price", "B", 0, "R", false, 0, "")
		pdf.CellFormat(amountWidth, 6, "Amount", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	writeHeader()

	var subtotal int64
	for _, item := range order.Items {
		amount := item.PriceCents * int64(item.Quantity)
		subtotal += amount

		// Перенос таблицы на следующую страницу вместе с заголовком
		_, pageHeight := pdf.GetPageSize()
		_, _, _, bottom := pdf.GetMargins()
		if pdf.GetY()+6 > pageHeight-bottom-10 {
			pdf.AddPage()
			writeHeader()
		}

		pdf.CellFormat(nameWidth, 6, item.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyWidth, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(priceWidth, 6, FormatAmount(item.PriceCents), "", 0, "R", false, 0, "")
		pdf.CellFormat(amountWidth, 6, FormatAmount(amount), "", 1, "R", false, 0, "")
	}

	pdf.Line(left, pdf.GetY(), pageWidth-right, pdf.GetY())
	pdf.Ln(2)

	// Итоги
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(nameWidth+qtyWidth+priceWidth, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(amountWidth, 6, FormatAmount(subtotal), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(nameWidth+qtyWidth+priceWidth, 7, "Total:", "", 0, "R", false, 0, "")
	pdf.CellFormat(amountWidth, 7, FormatAmount(order.TotalCents), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}
