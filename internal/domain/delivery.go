package domain

import "github.com/shopspring/decimal"

type DeliveryOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

const DefaultDeliveryOptionID = "standard"

// DeliveryOptions is the built-in list offered at checkout.
var DeliveryOptions = []DeliveryOption{
	{ID: "standard", Name: "Standard delivery (3-5 days)", Price: decimal.NewFromInt(5)},
	{ID: "express", Name: "Express delivery (1-2 days)", Price: decimal.NewFromInt(15)},
	{ID: "pickup", Name: "Store pickup", Price: decimal.Zero},
}

func FindDeliveryOption(id string) (DeliveryOption, bool) {
	for _, o := range DeliveryOptions {
		if o.ID == id {
			return o, true
		}
	}
	return DeliveryOption{}, false
}
