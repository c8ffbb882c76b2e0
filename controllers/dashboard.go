package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"pumpkin-store/models"
	"pumpkin-store/store"
	"pumpkin-store/utils"
)

// DashboardController serves the admin statistics endpoint.
type DashboardController struct {
	Products store.ProductStore
	Orders   store.OrderStore
	Users    store.UserStore
}

// NewDashboardController creates a new DashboardController.
func NewDashboardController(products store.ProductStore, orders store.OrderStore, users store.UserStore) *DashboardController {
	return &DashboardController{Products: products, Orders: orders, Users: users}
}

type recentOrder struct {
	ID          primitive.ObjectID `json:"_id"`
	UserName    string             `json:"user,omitempty"`
	TotalPrice  float64            `json:"totalPrice"`
	OrderStatus models.OrderStatus `json:"orderStatus"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type topProduct struct {
	ProductID primitive.ObjectID `json:"productId"`
	Quantity  int                `json:"quantity"`
	Name      string             `json:"name"`
	Image     string             `json:"image"`
}

// GetDashboardStats aggregates store-wide statistics for the admin
// dashboard. The three collections are fetched in parallel.
func (dc *DashboardController) GetDashboardStats(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var (
		products []models.Product
		orders   []models.Order
		users    []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = dc.Products.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = dc.Orders.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = dc.Users.FindAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	outOfStock := 0
	for _, p := range products {
		if p.Stock == 0 {
			outOfStock++
		}
	}

	totalRevenue := 0.0
	statusCounts := map[string]int{"processing": 0, "shipped": 0, "delivered": 0, "cancelled": 0}
	for _, o := range orders {
		totalRevenue += o.TotalPrice
		switch o.OrderStatus {
		case models.StatusProcessing:
			statusCounts["processing"]++
		case models.StatusShipped:
			statusCounts["shipped"]++
		case models.StatusDelivered:
			statusCounts["delivered"]++
		case models.StatusCancelled:
			statusCounts["cancelled"]++
		}
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"products": map[string]interface{}{
				"total":      len(products),
				"outOfStock": outOfStock,
			},
			"orders": map[string]interface{}{
				"total":   len(orders),
				"revenue": totalRevenue,
				"status":  statusCounts,
			},
			"users": map[string]interface{}{
				"total": len(users),
			},
			"recentOrders": dc.recentOrders(ctx, orders),
			"topProducts":  topProducts(orders, products),
		},
	})
	return nil
}

// recentOrders returns the five newest orders with their owner names
// resolved where the user still exists.
func (dc *DashboardController) recentOrders(ctx context.Context, orders []models.Order) []recentOrder {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	recent := make([]recentOrder, 0, len(sorted))
	names := map[primitive.ObjectID]string{}
	for _, o := range sorted {
		name, ok := names[o.User]
		if !ok {
			if owner, err := dc.Users.FindByID(ctx, o.User); err == nil {
				name = owner.Name
			}
			names[o.User] = name
		}
		recent = append(recent, recentOrder{
			ID:          o.ID,
			UserName:    name,
			TotalPrice:  o.TotalPrice,
			OrderStatus: o.OrderStatus,
			CreatedAt:   o.CreatedAt,
		})
	}
	return recent
}

// topProducts ranks products by total ordered quantity and returns the top
// five with name and first image filled in from the catalog.
func topProducts(orders []models.Order, products []models.Product) []topProduct {
	sales := map[primitive.ObjectID]int{}
	for _, o := range orders {
		for _, item := range o.OrderItems {
			sales[item.Product] += item.Quantity
		}
	}

	ranked := make([]topProduct, 0, len(sales))
	for id, quantity := range sales {
		ranked = append(ranked, topProduct{ProductID: id, Quantity: quantity})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].ProductID.Hex() < ranked[j].ProductID.Hex()
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	byID := map[primitive.ObjectID]*models.Product{}
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range ranked {
		product, ok := byID[ranked[i].ProductID]
		if !ok {
			ranked[i].Name = "Unknown Product"
			continue
		}
		ranked[i].Name = product.Name
		if len(product.Images) > 0 {
			ranked[i].Image = product.Images[0].URL
		}
	}
	return ranked
}
