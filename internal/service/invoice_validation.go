package service

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/model"
)

// invoiceForm is the coerced form payload checked by the validator
type invoiceForm struct {
	CustomerID   string  `form:"customerId" validate:"required"`
	Amount       float64 `form:"amount" validate:"gt=0"`
	Status       string  `form:"status" validate:"invoice_status"`
	CategoryName string  `form:"categoryName" validate:"required"`
}

var invoiceFieldMessages = map[string]string{
	model.FieldCustomerID:   "Please select a customer.",
	model.FieldAmount:       "Please enter an amount greater than $0.",
	model.FieldStatus:       "Please select an invoice status.",
	model.FieldCategoryName: "Please select a category.",
}

// InvoiceFormValidator checks submitted invoice fields and reports errors keyed by form field name
type InvoiceFormValidator struct {
	validate *validator.Validate
}

// NewInvoiceFormValidator creates a validator that names fields after their form tags
func NewInvoiceFormValidator() *InvoiceFormValidator {
	return &InvoiceFormValidator{validate: newValidator()}
}

// Validate coerces the raw input and returns the typed form, or the field errors when it is invalid
func (v *InvoiceFormValidator) Validate(input model.InvoiceFormInput) (invoiceForm, map[string][]string) {
	form := invoiceForm{
		CustomerID:   strings.TrimSpace(input.CustomerID),
		Amount:       coerceAmount(string(input.Amount)),
		Status:       strings.TrimSpace(input.Status),
		CategoryName: strings.TrimSpace(input.CategoryName),
	}

	err := v.validate.Struct(form)
	if err == nil {
		return form, nil
	}

	fieldErrors := map[string][]string{}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		fieldErrors[model.FieldAmount] = []string{invoiceFieldMessages[model.FieldAmount]}
		return form, fieldErrors
	}
	for _, fe := range validationErrors {
		field := fe.Field()
		fieldErrors[field] = append(fieldErrors[field], invoiceFieldMessages[field])
	}
	return form, fieldErrors
}

// coerceAmount parses a submitted amount; anything that is not a finite number becomes 0
func coerceAmount(raw string) float64 {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return amount
}

// status converts the validated status string
func (f invoiceForm) status() domain.InvoiceStatus {
	return domain.InvoiceStatus(f.Status)
}

// newValidator returns a validator reporting the form tag as the field name
func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("invoice_status", func(fl validator.FieldLevel) bool {
		return domain.InvoiceStatus(fl.Field().String()).Valid()
	})
	return validate
}
