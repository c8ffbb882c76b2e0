package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     string
	}{
		{"all valid", "Alice", "alice@example.com", "longenough", ""},
		{"missing everything", "", "", "", "Please Enter your Name; Please Enter your Email; Please Enter your Password"},
		{"short name", "Al", "alice@example.com", "longenough", "Name should have more than 3 characters"},
		{"long name", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "alice@example.com", "longenough", "Name cannot exceed 30 characters"},
		{"bad email", "Alice", "not-an-email", "longenough", "Please Enter a valid Email"},
		{"short password", "Alice", "alice@example.com", "short", "Password should be greater than 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.userName, tt.email, tt.password)
			if tt.want == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, http.StatusBadRequest, err.StatusCode)
			assert.Equal(t, tt.want, err.Message)
		})
	}
}

func TestValidateProduct(t *testing.T) {
	valid := ProductInput{Name: "Serum", Price: 12.5, Category: "skincare", Description: "hydrating", Stock: 3}
	assert.Nil(t, ValidateProduct(valid))

	err := ValidateProduct(ProductInput{Stock: -1})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "Please Enter Product Name")
	assert.Contains(t, err.Message, "Please Enter a positive Product Price")
	assert.Contains(t, err.Message, "Please Enter Product Category")
	assert.Contains(t, err.Message, "Please Enter Product Description")
	assert.Contains(t, err.Message, "Product Stock cannot be negative")

	// Stock of zero is allowed; it means out of stock.
	valid.Stock = 0
	assert.Nil(t, ValidateProduct(valid))
}

func TestValidateOrder(t *testing.T) {
	items := []OrderItemInput{{Product: "abc", Name: "Lip Balm", Quantity: 2}}
	assert.Nil(t, ValidateOrder("1 Main St", "Metropolis", "555-0100", items))

	err := ValidateOrder("", "", "", nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "Please Enter Shipping Address")
	assert.Contains(t, err.Message, "Please Enter Shipping City")
	assert.Contains(t, err.Message, "Please Enter Phone Number")
	assert.Contains(t, err.Message, "Order must contain at least one item")

	err = ValidateOrder("1 Main St", "Metropolis", "555-0100", []OrderItemInput{
		{Product: "", Quantity: 0},
		{Product: "abc", Quantity: 1},
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "Order item 1 is missing its product reference")
	assert.Contains(t, err.Message, "Order item 1 must have a positive quantity")
	assert.NotContains(t, err.Message, "Order item 2")
}

func TestValidateRating(t *testing.T) {
	assert.Nil(t, ValidateRating(1))
	assert.Nil(t, ValidateRating(4.5))
	require.NotNil(t, ValidateRating(0))
	require.NotNil(t, ValidateRating(-2))
}

func TestValidatePassword(t *testing.T) {
	assert.Nil(t, ValidatePassword("longenough"))
	require.NotNil(t, ValidatePassword(""))
	require.NotNil(t, ValidatePassword("seven77"))
}
