package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pumpkin-store/middleware"
	"pumpkin-store/models"
	"pumpkin-store/store"
	"pumpkin-store/utils"
)

const (
	// Page sizes are fixed per endpoint.
	publicResultPerPage = 4
	adminResultPerPage  = 10
)

// ProductController handles catalog and review requests.
type ProductController struct {
	Products store.ProductStore
	Images   utils.ImageStore
}

// NewProductController creates a new ProductController.
func NewProductController(products store.ProductStore, images utils.ImageStore) *ProductController {
	return &ProductController{Products: products, Images: images}
}

// GetAllProducts is the public paged listing, 4 per page. An empty overall
// result is a 404 on this endpoint.
func (pc *ProductController) GetAllProducts(w http.ResponseWriter, r *http.Request) error {
	return pc.listProducts(w, r, publicResultPerPage, true)
}

// GetAdminProducts is the admin paged listing, 10 per page. Unlike the
// public listing it returns an empty page when nothing matches.
func (pc *ProductController) GetAdminProducts(w http.ResponseWriter, r *http.Request) error {
	return pc.listProducts(w, r, adminResultPerPage, false)
}

func (pc *ProductController) listProducts(w http.ResponseWriter, r *http.Request, resultPerPage int, failOnEmpty bool) error {
	filter := parseProductFilter(r.URL.Query())
	page := parsePage(r.URL.Query().Get("page"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Count before pagination: this is the number used for page math.
	count, err := pc.Products.Count(ctx, filter)
	if err != nil {
		return err
	}

	totalPages, skip, pageErr := paginate(count, resultPerPage, page)
	if pageErr != nil {
		return pageErr
	}

	products, err := pc.Products.FindPage(ctx, filter, skip, int64(resultPerPage))
	if err != nil {
		return err
	}
	if failOnEmpty && len(products) == 0 {
		return utils.NewNotFound("Products not found")
	}
	if products == nil {
		products = []models.Product{}
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"products":      products,
		"productCount":  count,
		"totalPages":    totalPages,
		"resultPerPage": resultPerPage,
		"currentPage":   page,
	})
	return nil
}

// GetSingleProduct returns one product by id.
func (pc *ProductController) GetSingleProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound("Product not found")
	}
	if err != nil {
		return err
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{"product": product})
	return nil
}

// CreateProduct adds a catalog item. Admin only. Multipart form with zero or
// more "images" files; a placeholder image is used when none are supplied.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	admin, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return utils.NewUnauthorized("Please login to access this resource")
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return utils.NewValidationError([]string{"Invalid form data"})
	}

	input, err := parseProductInput(r)
	if err != nil {
		return err
	}
	if err := utils.ValidateProduct(input); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	images := []models.Image{models.DefaultProductImage()}
	if r.MultipartForm != nil && len(r.MultipartForm.File["images"]) > 0 {
		images, err = utils.UploadAll(ctx, pc.Images, r.MultipartForm.File["images"], "products")
		if err != nil {
			return utils.NewInternal("Error uploading product images")
		}
	}

	product := &models.Product{
		Name:        input.Name,
		Images:      images,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		Description: input.Description,
		User:        admin.ID,
	}
	if err := pc.Products.Create(ctx, product); err != nil {
		return err
	}

	utils.Success(w, http.StatusCreated, map[string]interface{}{"product": product})
	return nil
}

// UpdateProduct edits a catalog item. Admin only. Supports imagesToDelete[]
// (removed best-effort from the image host) and appended new "images" files.
// Empty form fields leave the stored value unchanged.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid product ID"})
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return utils.NewValidationError([]string{"Invalid form data"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	product, err := pc.Products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound("Product not found")
	}
	if err != nil {
		return err
	}

	if toDelete := imagesToDelete(r); len(toDelete) > 0 {
		if err := utils.DeleteAll(ctx, pc.Images, toDelete); err != nil {
			log.Printf("error deleting product images: %v", err)
		}
		deleted := make(map[string]bool, len(toDelete))
		for _, id := range toDelete {
			deleted[id] = true
		}
		kept := product.Images[:0]
		for _, img := range product.Images {
			if !deleted[img.PublicID] {
				kept = append(kept, img)
			}
		}
		product.Images = kept
	}

	if r.MultipartForm != nil && len(r.MultipartForm.File["images"]) > 0 {
		newImages, err := utils.UploadAll(ctx, pc.Images, r.MultipartForm.File["images"], "products")
		if err != nil {
			return utils.NewInternal("Error uploading new product images")
		}
		product.Images = append(product.Images, newImages...)
	}

	if v := r.FormValue("name"); v != "" {
		product.Name = v
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return utils.NewValidationError([]string{"Please Enter a valid Product Price"})
		}
		product.Price = price
	}
	if v := r.FormValue("description"); v != "" {
		product.Description = v
	}
	if v := r.FormValue("category"); v != "" {
		product.Category = v
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return utils.NewValidationError([]string{"Please Enter a valid Product Stock"})
		}
		product.Stock = stock
	}

	if err := pc.Products.Update(ctx, product); err != nil {
		return err
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"product": product})
	return nil
}

// DeleteProduct removes a catalog item, cleaning up its hosted images
// best-effort.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	product, err := pc.Products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound("Product not found")
	}
	if err != nil {
		return err
	}

	publicIDs := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		publicIDs = append(publicIDs, img.PublicID)
	}
	if err := utils.DeleteAll(ctx, pc.Images, publicIDs); err != nil {
		log.Printf("error deleting product images: %v", err)
	}

	if err := pc.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return utils.NewNotFound("Product not found")
		}
		return err
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "Product Deleted Successfully",
	})
	return nil
}

// CreateReview adds or replaces the caller's review of a product and
// recomputes the aggregates. One review per user per product.
func (pc *ProductController) CreateReview(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return utils.NewUnauthorized("Please login to access this resource")
	}

	var body struct {
		ProductID string  `json:"productId"`
		Rating    float64 `json:"rating"`
		Comment   string  `json:"comment"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if err := utils.ValidateRating(body.Rating); err != nil {
		return err
	}
	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		return utils.NewValidationError([]string{"Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Products.FindByID(ctx, productID)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound(fmt.Sprintf("Product with id %s not found", body.ProductID))
	}
	if err != nil {
		return err
	}

	product.UpsertReview(models.Review{
		User:    user.ID,
		Name:    user.Name,
		Rating:  body.Rating,
		Comment: body.Comment,
	})

	// Only the review fields are persisted on this path.
	if err := pc.Products.UpdateReviews(ctx, product); err != nil {
		return err
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"product": product})
	return nil
}

// GetProductReviews returns the reviews of the product named by ?id=.
func (pc *ProductController) GetProductReviews(w http.ResponseWriter, r *http.Request) error {
	rawID := r.URL.Query().Get("id")
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return utils.NewValidationError([]string{"Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound(fmt.Sprintf("Product with id %s not found", rawID))
	}
	if err != nil {
		return err
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{"reviews": product.Reviews})
	return nil
}

// DeleteReview removes a review by id (?productId=&id=) and recomputes the
// aggregates. This path persists the full document.
func (pc *ProductController) DeleteReview(w http.ResponseWriter, r *http.Request) error {
	productID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("productId"))
	if err != nil {
		return utils.NewValidationError([]string{"Invalid product ID"})
	}
	rawReviewID := r.URL.Query().Get("id")
	reviewID, err := primitive.ObjectIDFromHex(rawReviewID)
	if err != nil {
		return utils.NewValidationError([]string{"Invalid review ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Products.FindByID(ctx, productID)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound(fmt.Sprintf("Product with id %s not found", productID.Hex()))
	}
	if err != nil {
		return err
	}

	if !product.RemoveReview(reviewID) {
		return utils.NewNotFound(fmt.Sprintf("Review with id %s not found", rawReviewID))
	}

	if err := pc.Products.Update(ctx, product); err != nil {
		return err
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "Review deleted successfully",
		"product": product,
	})
	return nil
}

// paginate computes total pages and the skip offset, rejecting pages past
// the end of a non-empty result set.
func paginate(count int64, resultPerPage, page int) (totalPages int, skip int64, err error) {
	totalPages = int((count + int64(resultPerPage) - 1) / int64(resultPerPage))
	if page > totalPages && count > 0 {
		return 0, 0, utils.NewNotFound("Page not found")
	}
	return totalPages, int64(resultPerPage) * int64(page-1), nil
}

// parsePage returns the 1-based page, defaulting to 1 when absent or not a
// positive number.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseProductFilter(query url.Values) store.ProductFilter {
	filter := store.ProductFilter{
		Keyword:  query.Get("keyword"),
		Category: query.Get("category"),
	}
	if v, err := strconv.ParseFloat(query.Get("price[gte]"), 64); err == nil {
		gte := v
		filter.PriceGTE = &gte
	}
	if v, err := strconv.ParseFloat(query.Get("price[lte]"), 64); err == nil {
		lte := v
		filter.PriceLTE = &lte
	}
	return filter
}

func parseProductInput(r *http.Request) (utils.ProductInput, error) {
	input := utils.ProductInput{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Stock:       1,
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return input, utils.NewValidationError([]string{"Please Enter a valid Product Price"})
		}
		input.Price = price
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return input, utils.NewValidationError([]string{"Please Enter a valid Product Stock"})
		}
		input.Stock = stock
	}
	return input, nil
}

func imagesToDelete(r *http.Request) []string {
	if r.MultipartForm == nil {
		return nil
	}
	ids := r.MultipartForm.Value["imagesToDelete[]"]
	return append(ids, r.MultipartForm.Value["imagesToDelete"]...)
}
