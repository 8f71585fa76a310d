package handler

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/repository"
)

func newProductApp(svc *mockInventoryService, user *domain.User) *fiber.App {
	h := NewProductHandler(svc)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	products := app.Group("/products", asUser(user))
	products.Post("/", h.Create)
	products.Get("/", h.List)
	products.Get("/:productId", h.Get)
	products.Get("/:productId/movements", h.ListMovements)
	products.Post("/:productId/adjust", h.AdjustStock)
	products.Delete("/:productId", h.Delete)
	return app
}

func TestProductHandler(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: string(domain.RoleStaff), IsActive: true}
	productID := uuid.New()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		setup  func(svc *mockInventoryService)
		status int
	}{
		{
			name:   "create",
			method: "POST",
			path:   "/products",
			body:   `{"sku":"WID-001","name":"Widget","quantity":10}`,
			setup: func(svc *mockInventoryService) {
				svc.On("Create", mock.Anything, user.ID, mock.AnythingOfType("domain.CreateProductInput")).
					Return(&domain.Product{ID: productID, SKU: "WID-001"}, nil)
			},
			status: fiber.StatusCreated,
		},
		{
			name:   "create missing name",
			method: "POST",
			path:   "/products",
			body:   `{"sku":"WID-001"}`,
			status: fiber.StatusBadRequest,
		},
		{
			name:   "duplicate sku",
			method: "POST",
			path:   "/products",
			body:   `{"sku":"WID-001","name":"Widget"}`,
			setup: func(svc *mockInventoryService) {
				svc.On("Create", mock.Anything, user.ID, mock.Anything).Return(nil, domain.ErrSKUExists)
			},
			status: fiber.StatusConflict,
		},
		{
			name:   "get not found",
			method: "GET",
			path:   "/products/" + productID.String(),
			setup: func(svc *mockInventoryService) {
				svc.On("GetByID", mock.Anything, productID).Return(nil, domain.ErrProductNotFound)
			},
			status: fiber.StatusNotFound,
		},
		{
			name:   "get invalid id",
			method: "GET",
			path:   "/products/abc",
			status: fiber.StatusBadRequest,
		},
		{
			name:   "list low stock",
			method: "GET",
			path:   "/products?low_stock=true&page=2&page_size=5",
			setup: func(svc *mockInventoryService) {
				svc.On("List", mock.Anything, repository.ProductFilter{LowStock: true}, domain.PaginationParams{Page: 2, PageSize: 5}).
					Return(domain.PaginatedResponse[domain.Product]{Data: []domain.Product{}}, nil)
			},
			status: fiber.StatusOK,
		},
		{
			name:   "movements of unknown product",
			method: "GET",
			path:   "/products/" + productID.String() + "/movements",
			setup: func(svc *mockInventoryService) {
				svc.On("ListMovements", mock.Anything, productID, domain.PaginationParams{Page: 1, PageSize: 20}).
					Return(domain.PaginatedResponse[domain.StockMovement]{}, domain.ErrProductNotFound)
			},
			status: fiber.StatusNotFound,
		},
		{
			name:   "adjust beyond stock",
			method: "POST",
			path:   "/products/" + productID.String() + "/adjust",
			body:   `{"delta":-40}`,
			setup: func(svc *mockInventoryService) {
				svc.On("AdjustStock", mock.Anything, productID, user.ID, domain.AdjustStockInput{Delta: -40}).
					Return(nil, domain.ErrInsufficientStock)
			},
			status: fiber.StatusConflict,
		},
		{
			name:   "internal error",
			method: "DELETE",
			path:   "/products/" + productID.String(),
			setup: func(svc *mockInventoryService) {
				svc.On("Delete", mock.Anything, productID, user.ID).Return(fmt.Errorf("failed to delete product: %s", "connection refused"))
			},
			status: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockInventoryService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			app := newProductApp(svc, user)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			svc.AssertExpectations(t)
		})
	}
}

func TestMapError(t *testing.T) {
	err := mapError(fmt.Errorf("%w: %s", domain.ErrInsufficientStock, "WID-001"))

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
	assert.Equal(t, "Insufficient stock: WID-001", fe.Message)
}
