package utils

import (
	"fmt"
	"net/mail"
)

// Boundary validators. Each returns a single validation error listing every
// violated constraint, mirroring the field rules of the document schemas.

// ValidateRegistration checks the registration payload.
func ValidateRegistration(name, email, password string) *AppError {
	var violations []string
	violations = append(violations, checkName(name)...)
	violations = append(violations, checkEmail(email)...)
	violations = append(violations, checkPassword(password)...)
	if len(violations) > 0 {
		return NewValidationError(violations)
	}
	return nil
}

// ValidateProfileUpdate checks a profile update payload.
func ValidateProfileUpdate(name, email string) *AppError {
	var violations []string
	violations = append(violations, checkName(name)...)
	violations = append(violations, checkEmail(email)...)
	if len(violations) > 0 {
		return NewValidationError(violations)
	}
	return nil
}

// ValidatePassword checks a new password on reset/update paths.
func ValidatePassword(password string) *AppError {
	if violations := checkPassword(password); len(violations) > 0 {
		return NewValidationError(violations)
	}
	return nil
}

// ProductInput is the validatable part of a product create/update payload.
type ProductInput struct {
	Name        string
	Price       float64
	Category    string
	Description string
	Stock       int
}

// ValidateProduct checks a product payload.
func ValidateProduct(in ProductInput) *AppError {
	var violations []string
	if in.Name == "" {
		violations = append(violations, "Please Enter Product Name")
	}
	if in.Price <= 0 {
		violations = append(violations, "Please Enter a positive Product Price")
	}
	if in.Category == "" {
		violations = append(violations, "Please Enter Product Category")
	}
	if in.Description == "" {
		violations = append(violations, "Please Enter Product Description")
	}
	if in.Stock < 0 {
		violations = append(violations, "Product Stock cannot be negative")
	}
	if len(violations) > 0 {
		return NewValidationError(violations)
	}
	return nil
}

// OrderItemInput is one cart-snapshot line of an order payload.
type OrderItemInput struct {
	Product  string
	Name     string
	Quantity int
}

// ValidateOrder checks an order creation payload. Pricing totals are taken
// as supplied by the caller and not re-validated beyond presence.
func ValidateOrder(address, city, phoneNo string, items []OrderItemInput) *AppError {
	var violations []string
	if address == "" {
		violations = append(violations, "Please Enter Shipping Address")
	}
	if city == "" {
		violations = append(violations, "Please Enter Shipping City")
	}
	if phoneNo == "" {
		violations = append(violations, "Please Enter Phone Number")
	}
	if len(items) == 0 {
		violations = append(violations, "Order must contain at least one item")
	}
	for i, item := range items {
		if item.Product == "" {
			violations = append(violations, fmt.Sprintf("Order item %d is missing its product reference", i+1))
		}
		if item.Quantity <= 0 {
			violations = append(violations, fmt.Sprintf("Order item %d must have a positive quantity", i+1))
		}
	}
	if len(violations) > 0 {
		return NewValidationError(violations)
	}
	return nil
}

// ValidateRating checks a review rating.
func ValidateRating(rating float64) *AppError {
	if rating <= 0 {
		return NewValidationError([]string{"Please provide a rating"})
	}
	return nil
}

func checkName(name string) []string {
	var violations []string
	if name == "" {
		violations = append(violations, "Please Enter your Name")
	} else if len(name) < 3 {
		violations = append(violations, "Name should have more than 3 characters")
	} else if len(name) > 30 {
		violations = append(violations, "Name cannot exceed 30 characters")
	}
	return violations
}

func checkEmail(email string) []string {
	if email == "" {
		return []string{"Please Enter your Email"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []string{"Please Enter a valid Email"}
	}
	return nil
}

func checkPassword(password string) []string {
	if password == "" {
		return []string{"Please Enter your Password"}
	}
	if len(password) < 8 {
		return []string{"Password should be greater than 8 characters"}
	}
	return nil
}
