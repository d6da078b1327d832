package service

import (
	"testing"

	"github.com/netbill/netbill/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrettyPaymentMethod(t *testing.T) {
	tests := []struct {
		name        string
		method      types.PaymentMethod
		paymentType string
		issuer      string
		expected    string
	}{
		{"cash", types.PaymentMethodCash, "", "", "Tunai"},
		{"manual transfer", types.PaymentMethodManualTransfer, "", "", "Transfer Manual"},
		{"gopay", types.PaymentMethodMidtrans, "gopay", "", "GoPay"},
		{"shopeepay", types.PaymentMethodMidtrans, "shopeepay", "", "ShopeePay"},
		{"qris", types.PaymentMethodMidtrans, "qris", "", "QRIS"},
		{"bank transfer with issuer", types.PaymentMethodMidtrans, "bank_transfer", "bca", "Transfer Bank (BCA)"},
		{"bank transfer without issuer", types.PaymentMethodMidtrans, "bank_transfer", "", "Transfer Bank (ATM)"},
		{"credit card", types.PaymentMethodMidtrans, "credit_card", "", "Kartu Kredit"},
		{"cstore without issuer", types.PaymentMethodMidtrans, "cstore", "", "Gerai Retail (Indomaret/Alfamart)"},
		{"cstore with issuer", types.PaymentMethodMidtrans, "cstore", "indomaret", "Gerai Retail (INDOMARET)"},
		{"echannel", types.PaymentMethodMidtrans, "echannel", "", "Transfer Bank Mandiri/E-Channel"},
		{"billpayment", types.PaymentMethodMidtrans, "billpayment", "", "Transfer Bank Mandiri/E-Channel"},
		{"unknown gateway type", types.PaymentMethodMidtrans, "paylater", "", "Midtrans (paylater)"},
		{"gateway without type", types.PaymentMethodMidtrans, "", "", "Midtrans (Otomatis)"},
		{"mixed case type", types.PaymentMethodMidtrans, "GoPay", "", "GoPay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrettyPaymentMethod(tt.method, tt.paymentType, tt.issuer))
		})
	}
}
