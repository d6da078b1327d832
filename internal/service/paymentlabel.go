package service

import (
	"strings"

	"github.com/netbill/netbill/internal/types"
)

// PrettyPaymentMethod maps a raw payment method and gateway payment type to
// the human-readable label used in receipt messages. Non-gateway methods get
// fixed labels; unknown method codes pass through verbatim.
func PrettyPaymentMethod(method types.PaymentMethod, paymentType, issuer string) string {
	if method != types.PaymentMethodMidtrans {
		switch method {
		case types.PaymentMethodCash:
			return "Tunai"
		case types.PaymentMethodManualTransfer:
			return "Transfer Manual"
		default:
			return string(method)
		}
	}

	pt := strings.ToLower(paymentType)
	issuerName := strings.ToUpper(issuer)

	switch pt {
	case "gopay":
		return "GoPay"
	case "shopeepay":
		return "ShopeePay"
	case "qris":
		return "QRIS"
	case "bank_transfer":
		if issuerName == "" {
			issuerName = "ATM"
		}
		return "Transfer Bank (" + issuerName + ")"
	case "credit_card":
		return "Kartu Kredit"
	case "cstore":
		if issuerName == "" {
			issuerName = "Indomaret/Alfamart"
		}
		return "Gerai Retail (" + issuerName + ")"
	case "echannel", "billpayment":
		return "Transfer Bank Mandiri/E-Channel"
	}

	if pt == "" {
		pt = "Otomatis"
	}
	return "Midtrans (" + pt + ")"
}
