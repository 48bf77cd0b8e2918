package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/usecase/shoppinglist"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/middleware"
)

// ShoppingListController handles shopping list endpoints.
type ShoppingListController struct {
	listUseCase     *shoppinglist.ListItemsUseCase
	addUseCase      *shoppinglist.AddItemUseCase
	quantityUseCase *shoppinglist.UpdateQuantityUseCase
	toggleUseCase   *shoppinglist.TogglePurchasedUseCase
	deleteUseCase   *shoppinglist.DeleteItemUseCase
}

// NewShoppingListController creates a new shopping list controller instance.
func NewShoppingListController(
	listUseCase *shoppinglist.ListItemsUseCase,
	addUseCase *shoppinglist.AddItemUseCase,
	quantityUseCase *shoppinglist.UpdateQuantityUseCase,
	toggleUseCase *shoppinglist.TogglePurchasedUseCase,
	deleteUseCase *shoppinglist.DeleteItemUseCase,
) *ShoppingListController {
	return &ShoppingListController{
		listUseCase:     listUseCase,
		addUseCase:      addUseCase,
		quantityUseCase: quantityUseCase,
		toggleUseCase:   toggleUseCase,
		deleteUseCase:   deleteUseCase,
	}
}

// List handles GET /shopping-list requests.
func (c *ShoppingListController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToShoppingListResponse(output.Items))
}

// Add handles POST /shopping-list requests.
func (c *ShoppingListController) Add(ctx *gin.Context) {
	var req dto.AddShoppingListItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, string(domainerror.ErrCodeMissingListFields), err)
		return
	}

	input := shoppinglist.AddItemInput{
		ProductID: uuid.MustParse(req.ProductID),
		Quantity:  req.Quantity,
	}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		input.AddedBy = &userID
	}

	output, err := c.addUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToShoppingListItemResponse(output.Item, output.Product))
}

// UpdateQuantity handles PATCH /shopping-list/:id requests.
func (c *ShoppingListController) UpdateQuantity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "item")
	if !ok {
		return
	}

	var req dto.UpdateShoppingListItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, string(domainerror.ErrCodeMissingListFields), err)
		return
	}

	output, err := c.quantityUseCase.Execute(ctx.Request.Context(), shoppinglist.UpdateQuantityInput{
		ID:       id,
		Quantity: req.Quantity,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToShoppingListItemResponse(output.Item, output.Product))
}

// Toggle handles POST /shopping-list/:id/toggle requests.
// The response carries the draft so clients can refresh both views at once.
func (c *ShoppingListController) Toggle(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "item")
	if !ok {
		return
	}

	output, err := c.toggleUseCase.Execute(ctx.Request.Context(), shoppinglist.TogglePurchasedInput{ID: id})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToggleShoppingListItemResponse{
		Item:  dto.ToShoppingListItemResponse(output.Item, output.Product),
		Draft: dto.ToDraftResponse(output.Draft, output.Draft.Total()),
	})
}

// Delete handles DELETE /shopping-list/:id requests.
func (c *ShoppingListController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "item")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), id); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
