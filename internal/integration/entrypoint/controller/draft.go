package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pantry-ledger/backend/internal/application/usecase/draft"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/dto"
)

// DraftController handles the draft purchase endpoints.
type DraftController struct {
	getUseCase    *draft.GetDraftUseCase
	priceUseCase  *draft.EditDraftPriceUseCase
	removeUseCase *draft.RemoveDraftItemUseCase
}

// NewDraftController creates a new draft controller instance.
func NewDraftController(
	getUseCase *draft.GetDraftUseCase,
	priceUseCase *draft.EditDraftPriceUseCase,
	removeUseCase *draft.RemoveDraftItemUseCase,
) *DraftController {
	return &DraftController{
		getUseCase:    getUseCase,
		priceUseCase:  priceUseCase,
		removeUseCase: removeUseCase,
	}
}

// Get handles GET /draft requests.
func (c *DraftController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDraftResponse(output.Draft, output.Total))
}

// EditPrice handles PATCH /draft/items/:productId/price requests.
func (c *DraftController) EditPrice(ctx *gin.Context) {
	productID, ok := parseIDParam(ctx, "productId", "product")
	if !ok {
		return
	}

	var req dto.EditDraftPriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, string(domainerror.ErrCodeMissingDraftFields), err)
		return
	}

	output, err := c.priceUseCase.Execute(ctx.Request.Context(), draft.EditDraftPriceInput{
		ProductID: productID,
		Price:     *req.Price,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDraftResponse(output.Draft, output.Total))
}

// RemoveItem handles DELETE /draft/items/:productId requests.
func (c *DraftController) RemoveItem(ctx *gin.Context) {
	productID, ok := parseIDParam(ctx, "productId", "product")
	if !ok {
		return
	}

	output, err := c.removeUseCase.Execute(ctx.Request.Context(), draft.RemoveDraftItemInput{
		ProductID: productID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDraftResponse(output.Draft, output.Total))
}
