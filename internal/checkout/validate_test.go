package checkout

import (
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() domain.ShopperForm {
	return domain.ShopperForm{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Phone:         "(555) 123-4567",
		Address:       "12 Analytical Row",
		City:          "London",
		State:         "LDN",
		PostalCode:    "12345",
		Country:       "UK",
		PaymentMethod: domain.PaymentCreditCard,
	}
}

func TestValidateForm_Valid(t *testing.T) {
	assert.Nil(t, ValidateForm(validForm(), 1))

	f := validForm()
	f.PostalCode = "12345-6789"
	f.IsGift = true
	f.GiftMessage = "Happy birthday"
	assert.Nil(t, ValidateForm(f, 3))
}

func TestValidateForm_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ShopperForm)
		field  string
	}{
		{"blank first name", func(f *domain.ShopperForm) { f.FirstName = "  " }, "first_name"},
		{"blank last name", func(f *domain.ShopperForm) { f.LastName = "" }, "last_name"},
		{"email without domain", func(f *domain.ShopperForm) { f.Email = "ada@" }, "email"},
		{"email with space", func(f *domain.ShopperForm) { f.Email = "ada lovelace@example.com" }, "email"},
		{"phone too short", func(f *domain.ShopperForm) { f.Phone = "12-34-5" }, "phone"},
		{"blank address", func(f *domain.ShopperForm) { f.Address = "" }, "address"},
		{"blank city", func(f *domain.ShopperForm) { f.City = "" }, "city"},
		{"blank state", func(f *domain.ShopperForm) { f.State = "" }, "state"},
		{"blank country", func(f *domain.ShopperForm) { f.Country = "" }, "country"},
		{"postal letters", func(f *domain.ShopperForm) { f.PostalCode = "SW1A 1AA" }, "postal_code"},
		{"postal short plus four", func(f *domain.ShopperForm) { f.PostalCode = "12345-67" }, "postal_code"},
		{"gift without message", func(f *domain.ShopperForm) { f.IsGift = true }, "gift_message"},
		{"unknown payment", func(f *domain.ShopperForm) { f.PaymentMethod = "bitcoin" }, "payment_method"},
		{"blank gift message", func(f *domain.ShopperForm) { f.IsGift = true; f.GiftMessage = "   " }, "gift_message"},
		{"blank postal", func(f *domain.ShopperForm) { f.PostalCode = "" }, "postal_code"},
		{"blank email", func(f *domain.ShopperForm) { f.Email = " " }, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			verr := ValidateForm(f, 1)

			require.NotNil(t, verr)
			assert.Len(t, verr.Fields, 1)
			assert.Equal(t, fieldMessages[tt.field], verr.Fields[tt.field])
		})
	}
}

func TestValidateForm_PaddedValuesPass(t *testing.T) {
	f := validForm()
	f.PostalCode = " 12345 "
	f.Email = " ada@example.com "

	assert.Nil(t, ValidateForm(f, 1))
}

func TestWithDefaults(t *testing.T) {
	f := validForm()
	f.PaymentMethod = ""
	assert.Equal(t, domain.PaymentCreditCard, WithDefaults(f).PaymentMethod)

	f.PaymentMethod = domain.PaymentPayPal
	assert.Equal(t, domain.PaymentPayPal, WithDefaults(f).PaymentMethod)
}

func TestValidateForm_EmptyCart(t *testing.T) {
	verr := ValidateForm(validForm(), 0)

	require.NotNil(t, verr)
	assert.Equal(t, "your cart is empty", verr.Fields["cart"])
}

func TestValidateForm_CollectsEveryField(t *testing.T) {
	verr := ValidateForm(domain.ShopperForm{}, 0)

	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 11)
}
