package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/usecase/product"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/dto"
)

// ProductController handles product catalog endpoints.
type ProductController struct {
	listUseCase     *product.ListProductsUseCase
	lowStockUseCase *product.ListLowStockUseCase
	getUseCase      *product.GetProductUseCase
	createUseCase   *product.CreateProductUseCase
	updateUseCase   *product.UpdateProductUseCase
	consumeUseCase  *product.ConsumeStockUseCase
}

// NewProductController creates a new product controller instance.
func NewProductController(
	listUseCase *product.ListProductsUseCase,
	lowStockUseCase *product.ListLowStockUseCase,
	getUseCase *product.GetProductUseCase,
	createUseCase *product.CreateProductUseCase,
	updateUseCase *product.UpdateProductUseCase,
	consumeUseCase *product.ConsumeStockUseCase,
) *ProductController {
	return &ProductController{
		listUseCase:     listUseCase,
		lowStockUseCase: lowStockUseCase,
		getUseCase:      getUseCase,
		createUseCase:   createUseCase,
		updateUseCase:   updateUseCase,
		consumeUseCase:  consumeUseCase,
	}
}

// List handles GET /products requests.
// Supports category_id, search and low_stock query filters.
func (c *ProductController) List(ctx *gin.Context) {
	input := product.ListProductsInput{
		Search: ctx.Query("search"),
	}

	if raw := ctx.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(ctx, http.StatusBadRequest, "Invalid category ID format", string(domainerror.ErrCodeMissingProductFields))
			return
		}
		input.CategoryID = &id
	}
	if raw := ctx.Query("low_stock"); raw != "" {
		lowStock, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, http.StatusBadRequest, "low_stock must be a boolean", string(domainerror.ErrCodeMissingProductFields))
			return
		}
		input.LowStock = lowStock
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductListResponse(output.Products))
}

// LowStock handles GET /products/low-stock requests.
func (c *ProductController) LowStock(ctx *gin.Context) {
	output, err := c.lowStockUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductListResponse(output.Products))
}

// Get handles GET /products/:id requests.
func (c *ProductController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "product")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(output.Product, output.Category))
}

// Create handles POST /products requests.
func (c *ProductController) Create(ctx *gin.Context) {
	var req dto.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, string(domainerror.ErrCodeMissingProductFields), err)
		return
	}

	input := product.CreateProductInput{
		Name:     req.Name,
		Price:    *req.Price,
		Quantity: req.Quantity,
		MinStock: req.MinStock,
		ImageURL: req.ImageURL,
	}
	if req.CategoryID != nil {
		id := uuid.MustParse(*req.CategoryID)
		input.CategoryID = &id
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToProductResponse(output.Product, output.Category))
}

// Update handles PATCH /products/:id requests.
func (c *ProductController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "product")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, string(domainerror.ErrCodeMissingProductFields), err)
		return
	}

	input := product.UpdateProductInput{
		ID:       id,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		MinStock: req.MinStock,
		ImageURL: req.ImageURL,
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			input.ClearCategory = true
		} else {
			categoryID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				writeError(ctx, http.StatusBadRequest, "Invalid category ID format", string(domainerror.ErrCodeMissingProductFields))
				return
			}
			input.CategoryID = &categoryID
		}
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(output.Product, output.Category))
}

// Consume handles POST /products/:id/consume requests.
func (c *ProductController) Consume(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "product")
	if !ok {
		return
	}

	var req dto.ConsumeStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, string(domainerror.ErrCodeMissingProductFields), err)
		return
	}

	output, err := c.consumeUseCase.Execute(ctx.Request.Context(), product.ConsumeStockInput{
		ProductID: id,
		Quantity:  req.Quantity,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ConsumeStockResponse{
		Product:  dto.ToProductResponse(output.Product, nil),
		LowStock: output.LowStock,
	})
}
