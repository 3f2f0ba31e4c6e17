package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderInvoice renders a PDF receipt for an order.
func GetOrderInvoice(c *gin.Context) {
	var order models.Order
	err := config.DB.
		Preload("Items.Medicine", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "price")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email")
		}).
		Preload("Delivery").
		First(&order, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Order not found.")
		return
	}

	if !policy.CanViewOrder(principal(c), &order) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to see this order.")
		return
	}

	pdf := buildInvoicePDF(&order)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Printf("Error rendering invoice for order %d: %v", order.ID, err)
		utils.Error(c, http.StatusInternalServerError, "Failed to generate invoice.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func buildInvoicePDF(order *models.Order) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "PharmaCare Invoice")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Order #%d", order.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s", order.OrderDate.Format("2006-01-02")))
	pdf.Ln(7)
	if order.User != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Customer: %s (%s)", order.User.Username, order.User.Email))
		pdf.Ln(7)
	}
	if order.Delivery != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Tracking number: %d (%s delivery)",
			order.Delivery.TrackNum, order.Delivery.DeliveryType))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Medicine", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		name := fmt.Sprintf("Medicine %d", item.MedicineID)
		price := decimal.Zero
		if item.Medicine != nil {
			name = item.Medicine.Name
			price = item.Medicine.Price
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))

		pdf.CellFormat(90, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	if order.Delivery != nil {
		surcharge := order.Delivery.DeliveryType.Surcharge()
		if !surcharge.IsZero() {
			pdf.CellFormat(150, 8, "Delivery surcharge", "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 8, surcharge.StringFixed(2), "1", 1, "R", false, 0, "")
		}
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, order.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 7, fmt.Sprintf("Payment status: %s", order.PaymentStatus))

	return pdf
}
