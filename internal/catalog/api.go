// Package catalog loads products from the mock generator, a JSON file or the
// catalog HTTP API, and maps the flat API shape onto product.Product.
package catalog

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iwvelando/catalog-quota/pkg/product"
)

// ApiResponse is the catalog endpoint payload.
type ApiResponse struct {
	Products []ApiProduct `json:"products"`
	Total    int          `json:"total"`
}

// ApiProduct is one product as served by the catalog API.
type ApiProduct struct {
	ID             string         `json:"id" validate:"required"`
	SKU            string         `json:"sku"`
	Name           string         `json:"name" validate:"required"`
	Slug           string         `json:"slug"`
	Brand          ApiBrand       `json:"brand"`
	Category       string         `json:"category"`
	Price          float64        `json:"price" validate:"gt=0"`
	StockAvailable int            `json:"stock_available" validate:"gte=0"`
	Specs          map[string]any `json:"specs"`
	Colors         []ApiColor     `json:"colors" validate:"dive"`
	Images         []string       `json:"images"`
	Labels         []string       `json:"labels"`
	Condition      string         `json:"condition" validate:"condition"`
	Gama           string         `json:"gama"`
	Usage          []string       `json:"usage"`
	ReleasedAt     string         `json:"released_at"`
	Popularity     int            `json:"popularity" validate:"gte=0"`
	Weight         float64        `json:"weight" validate:"gte=0"`
}

// ApiBrand identifies a product's brand.
type ApiBrand struct {
	Slug    string `json:"slug" validate:"required"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

// ApiColor is a purchasable color variant.
type ApiColor struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
	Hex  string `json:"hex" validate:"omitempty,hexcolor"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("condition", validCondition); err != nil {
		panic(err)
	}
	return v
}

// validCondition accepts an empty condition or a known one in any case.
func validCondition(fl validator.FieldLevel) bool {
	switch condition(fl.Field().String()) {
	case product.ConditionNew, product.ConditionRefurbished, product.ConditionUsed:
		return true
	}
	return false
}
