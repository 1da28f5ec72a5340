package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/example/ec-storefront/internal/domain/shipping"
	"github.com/example/ec-storefront/internal/money"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{"vnd": money.FormatVND}).
	ParseFS(templatesFS, "templates/*.html"))

// OrderItem represents an item in an order for email purposes
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice int64
}

func (i OrderItem) DisplayName() string {
	if i.Name == "" {
		return i.ProductID
	}
	return i.Name
}

func (i OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// OrderConfirmation is the data rendered into the confirmation email.
type OrderConfirmation struct {
	OrderID       string
	CustomerName  string
	Items         []OrderItem
	Subtotal      int64
	ShippingFee   int64
	Discount      int64
	Total         int64
	PaymentMethod string
	Address       shipping.Address
}

// BuildOrderConfirmationBody renders the HTML body for order confirmation email
func BuildOrderConfirmationBody(data OrderConfirmation) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "order_confirmation.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var paymentMethodNames = map[string]string{
	"cod":           "Thanh toán khi nhận hàng (COD)",
	"bank_transfer": "Chuyển khoản ngân hàng",
	"momo":          "Ví MoMo",
	"vnpay":         "VNPay",
}

// PaymentMethodName returns the Vietnamese label for a payment method code.
func PaymentMethodName(code string) string {
	if name, ok := paymentMethodNames[code]; ok {
		return name
	}
	return code
}
