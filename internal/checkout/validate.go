package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

const minPhoneDigits = 6

// messages keyed by the json name of the form field.
var fieldMessages = map[string]string{
	"first_name":     "first name is required",
	"last_name":      "last name is required",
	"email":          "enter a valid email address",
	"phone":          "enter a valid phone number",
	"address":        "street address is required",
	"city":           "city is required",
	"state":          "state is required",
	"postal_code":    "enter a valid postal code (12345 or 12345-6789)",
	"country":        "country is required",
	"payment_method": "choose a payment method",
	"gift_message":   "add a message for the gift",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("phonedigits", func(fl validator.FieldLevel) bool {
		return countDigits(fl.Field().String()) >= minPhoneDigits
	})
	_ = v.RegisterValidation("payment", func(fl validator.FieldLevel) bool {
		return domain.PaymentMethod(fl.Field().String()).Valid()
	})
	return v
}

// WithDefaults fills in what the checkout form preselects: credit card
// when no payment method was chosen.
func WithDefaults(f domain.ShopperForm) domain.ShopperForm {
	if strings.TrimSpace(string(f.PaymentMethod)) == "" {
		f.PaymentMethod = domain.PaymentCreditCard
	}
	return f
}

// ValidateForm checks the checkout form and the cart size. It returns nil
// when everything is acceptable.
func ValidateForm(f domain.ShopperForm, lines int) *domain.ValidationError {
	fields := map[string]string{}

	if err := validate.Struct(trimmed(f)); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			fields["form"] = err.Error()
		}
		for _, fe := range verrs {
			msg, ok := fieldMessages[fe.Field()]
			if !ok {
				msg = "invalid value"
			}
			fields[fe.Field()] = msg
		}
	}
	if lines == 0 {
		fields["cart"] = "your cart is empty"
	}

	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

// trimmed drops surrounding whitespace so a blank entry fails required.
func trimmed(f domain.ShopperForm) domain.ShopperForm {
	for _, s := range []*string{
		&f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.Address,
		&f.City, &f.State, &f.PostalCode, &f.Country, &f.GiftMessage,
	} {
		*s = strings.TrimSpace(*s)
	}
	f.PaymentMethod = domain.PaymentMethod(strings.TrimSpace(string(f.PaymentMethod)))
	return f
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
