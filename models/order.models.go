package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ShippingInfo holds the delivery address for an order.
type ShippingInfo struct {
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Country string `bson:"country" json:"country"`
	PinCode string `bson:"pin_code" json:"pinCode"`
	PhoneNo string `bson:"phone_no" json:"phoneNo"`
}

// OrderItem is a snapshot of a purchased product at order time. It is not
// live-linked to the Product record: name, price and image are frozen copies.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Image    string             `bson:"image" json:"image"`
}

// PaymentInfo records the external payment reference for an order.
type PaymentInfo struct {
	ID     string `bson:"id" json:"id"`
	Status string `bson:"status" json:"status"`
}

// Order represents a customer order.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ShippingInfo  ShippingInfo       `bson:"shipping_info" json:"shippingInfo"`
	OrderItems    []OrderItem        `bson:"order_items" json:"orderItems"`
	PaymentInfo   PaymentInfo        `bson:"payment_info" json:"paymentInfo"`
	ItemsPrice    float64            `bson:"items_price" json:"itemsPrice"`
	TaxPrice      float64            `bson:"tax_price" json:"taxPrice"`
	ShippingPrice float64            `bson:"shipping_price" json:"shippingPrice"`
	TotalPrice    float64            `bson:"total_price" json:"totalPrice"`
	OrderStatus   OrderStatus        `bson:"order_status" json:"orderStatus"`
	PaidAt        time.Time          `bson:"paid_at" json:"paidAt"`
	DeliveredAt   time.Time          `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	UserName      string             `bson:"-" json:"userName,omitempty"`
	UserEmail     string             `bson:"-" json:"userEmail,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
