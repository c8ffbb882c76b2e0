// controllers/order.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"pumpkin-store/middleware"
	"pumpkin-store/models"
	"pumpkin-store/store"
	"pumpkin-store/utils"
)

// OrderController handles the order lifecycle and the stock adjustment that
// commits on delivery.
type OrderController struct {
	Orders   store.OrderStore
	Products store.ProductStore
	Users    store.UserStore
}

// NewOrderController creates a new OrderController.
func NewOrderController(orders store.OrderStore, products store.ProductStore, users store.UserStore) *OrderController {
	return &OrderController{Orders: orders, Products: products, Users: users}
}

type orderItemRequest struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

type createOrderRequest struct {
	ShippingInfo  models.ShippingInfo `json:"shippingInfo"`
	OrderItems    []orderItemRequest  `json:"orderItems"`
	PaymentInfo   models.PaymentInfo  `json:"paymentInfo"`
	ItemsPrice    float64             `json:"itemsPrice"`
	TaxPrice      float64             `json:"taxPrice"`
	ShippingPrice float64             `json:"shippingPrice"`
	TotalPrice    float64             `json:"totalPrice"`
}

// CreateOrder persists a new order from the client's cart snapshot. Each
// item carries its own name/price/image; nothing is re-fetched from the
// catalog and stock is not touched here.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return utils.NewUnauthorized("Please login to access this resource")
	}

	var body createOrderRequest
	if err := decodeJSON(r, &body); err != nil {
		return err
	}

	items := make([]utils.OrderItemInput, len(body.OrderItems))
	for i, item := range body.OrderItems {
		items[i] = utils.OrderItemInput{Product: item.Product, Name: item.Name, Quantity: item.Quantity}
	}
	if err := utils.ValidateOrder(body.ShippingInfo.Address, body.ShippingInfo.City, body.ShippingInfo.PhoneNo, items); err != nil {
		return err
	}

	orderItems := make([]models.OrderItem, len(body.OrderItems))
	for i, item := range body.OrderItems {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return utils.NewValidationError([]string{fmt.Sprintf("Order item %d has an invalid product reference", i+1)})
		}
		orderItems[i] = models.OrderItem{
			Product:  productID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    item.Image,
		}
	}

	order := &models.Order{
		ShippingInfo:  body.ShippingInfo,
		OrderItems:    orderItems,
		PaymentInfo:   body.PaymentInfo,
		ItemsPrice:    body.ItemsPrice,
		TaxPrice:      body.TaxPrice,
		ShippingPrice: body.ShippingPrice,
		TotalPrice:    body.TotalPrice,
		OrderStatus:   models.StatusProcessing,
		PaidAt:        time.Now(),
		User:          user.ID,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := oc.Orders.Create(ctx, order); err != nil {
		return err
	}

	utils.Success(w, http.StatusCreated, map[string]interface{}{"order": order})
	return nil
}

// GetSingleOrder returns one order. Accessible to admins and the order's
// owner only.
func (oc *OrderController) GetSingleOrder(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return utils.NewUnauthorized("Please login to access this resource")
	}

	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := oc.Orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound(fmt.Sprintf("Order with id %s not found", id.Hex()))
	}
	if err != nil {
		return err
	}

	if user.Role != models.RoleAdmin && order.User != user.ID {
		return utils.NewForbidden(fmt.Sprintf("Role - %s is not allowed to access this resource", user.Role))
	}

	oc.resolveOwner(ctx, order)
	utils.Success(w, http.StatusOK, map[string]interface{}{"order": order})
	return nil
}

// AllMyOrders returns the caller's orders.
func (oc *OrderController) AllMyOrders(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return utils.NewUnauthorized("Please login to access this resource")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := oc.Orders.FindByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{"orders": orders})
	return nil
}

// GetAllOrders returns every order plus total revenue. Admin only.
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := oc.Orders.FindAll(ctx)
	if err != nil {
		return err
	}

	totalAmount := 0.0
	owners := map[primitive.ObjectID]*models.User{}
	for i := range orders {
		totalAmount += orders[i].TotalPrice
		owner, ok := owners[orders[i].User]
		if !ok {
			owner, _ = oc.Users.FindByID(ctx, orders[i].User)
			owners[orders[i].User] = owner
		}
		if owner != nil {
			orders[i].UserName = owner.Name
			orders[i].UserEmail = owner.Email
		}
	}
	if orders == nil {
		orders = []models.Order{}
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"orders":      orders,
		"totalAmount": totalAmount,
	})
	return nil
}

// UpdateOrderStatus transitions an order. Marking an order Delivered commits
// the stock decrement for every item, exactly once: a Delivered order
// accepts no further transitions.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) error {
	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid order ID"})
	}

	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if !models.ValidOrderStatus(body.Status) {
		return utils.NewValidationError([]string{"Invalid order status"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound(fmt.Sprintf("Order with id %s not found", id.Hex()))
	}
	if err != nil {
		return err
	}
	if order.OrderStatus == models.StatusDelivered {
		return utils.NewValidationError([]string{"You have already delivered this order"})
	}

	var deliveredAt time.Time
	if body.Status == models.StatusDelivered {
		if err := oc.decrementStock(ctx, order.OrderItems); err != nil {
			return err
		}
		deliveredAt = time.Now()
	}

	if err := oc.Orders.UpdateStatus(ctx, order.ID, body.Status, deliveredAt); err != nil {
		return err
	}
	order.OrderStatus = body.Status
	order.DeliveredAt = deliveredAt

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "Order status updated successfully",
		"order":   order,
	})
	return nil
}

// DeleteOrder removes a delivered order. Orders still in flight must be
// delivered or cancelled first.
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) error {
	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := oc.Orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound(fmt.Sprintf("Order with id %s not found", id.Hex()))
	}
	if err != nil {
		return err
	}
	if order.OrderStatus != models.StatusDelivered {
		return utils.NewValidationError([]string{"This order is under processing and can't be deleted"})
	}

	if err := oc.Orders.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return utils.NewNotFound(fmt.Sprintf("Order with id %s not found", id.Hex()))
		}
		return err
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "Order deleted successfully",
	})
	return nil
}

// decrementStock adjusts every item's product stock concurrently. A missing
// product is logged and skipped; any other failure fails the batch. Stock is
// never clamped at zero.
func (oc *OrderController) decrementStock(ctx context.Context, items []models.OrderItem) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error {
			err := oc.Products.IncrementStock(ctx, item.Product, -item.Quantity)
			if errors.Is(err, store.ErrNoDocuments) {
				log.Printf("product %s not found - skipping stock update", item.Product.Hex())
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// resolveOwner fills in the owning user's name and email when the user
// still exists.
func (oc *OrderController) resolveOwner(ctx context.Context, order *models.Order) {
	owner, err := oc.Users.FindByID(ctx, order.User)
	if err != nil {
		return
	}
	order.UserName = owner.Name
	order.UserEmail = owner.Email
}
