package controller

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pantry-ledger/backend/internal/application/usecase/purchase"
	"github.com/pantry-ledger/backend/internal/application/usecase/settlement"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/middleware"
)

// receiptField is the multipart form field carrying the receipt file.
const receiptField = "receipt"

// PurchaseController handles settlement, reversal and purchase history endpoints.
type PurchaseController struct {
	settleUseCase   *settlement.SettlePurchaseUseCase
	reverseUseCase  *settlement.ReversePurchaseUseCase
	listUseCase     *purchase.ListPurchasesUseCase
	getUseCase      *purchase.GetPurchaseUseCase
	exportUseCase   *purchase.ExportPurchasesUseCase
	maxReceiptBytes int64
}

// NewPurchaseController creates a new purchase controller instance.
func NewPurchaseController(
	settleUseCase *settlement.SettlePurchaseUseCase,
	reverseUseCase *settlement.ReversePurchaseUseCase,
	listUseCase *purchase.ListPurchasesUseCase,
	getUseCase *purchase.GetPurchaseUseCase,
	exportUseCase *purchase.ExportPurchasesUseCase,
	maxReceiptBytes int64,
) *PurchaseController {
	return &PurchaseController{
		settleUseCase:   settleUseCase,
		reverseUseCase:  reverseUseCase,
		listUseCase:     listUseCase,
		getUseCase:      getUseCase,
		exportUseCase:   exportUseCase,
		maxReceiptBytes: maxReceiptBytes,
	}
}

// Settle handles POST /purchases requests (multipart, field "receipt").
func (c *PurchaseController) Settle(ctx *gin.Context) {
	receipt, err := c.readReceipt(ctx)
	if err != nil {
		writeError(ctx, http.StatusBadRequest, "Could not read the receipt upload", string(domainerror.ErrCodeReceiptRequired))
		return
	}

	input := settlement.SettlePurchaseInput{Receipt: receipt}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		input.ActorID = &userID
	}

	output, err := c.settleUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.SettlementResponse{
		Purchase:     dto.ToPurchaseResponse(output.Purchase),
		Budget:       dto.ToBudgetResponse(output.Budget),
		SkippedItems: dto.ToPurchaseItemResponses(output.SkippedItems),
		Overspent:    output.Overspent,
	})
}

// readReceipt loads the uploaded file. A missing file yields a nil receipt.
// At most one byte over the limit is read so oversized uploads are still rejected by size.
func (c *PurchaseController) readReceipt(ctx *gin.Context) (*entity.Receipt, error) {
	header, err := ctx.FormFile(receiptField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, c.maxReceiptBytes+1))
	if err != nil {
		return nil, err
	}

	return &entity.Receipt{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Reverse handles DELETE /purchases/:id requests.
func (c *PurchaseController) Reverse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "purchase")
	if !ok {
		return
	}

	input := settlement.ReversePurchaseInput{PurchaseID: id}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		input.ActorID = &userID
	}

	output, err := c.reverseUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ReversalResponse{
		PurchaseID:     output.Purchase.ID.String(),
		Budget:         dto.ToBudgetResponse(output.Budget),
		SkippedItems:   dto.ToPurchaseItemResponses(output.SkippedItems),
		ReceiptDeleted: output.ReceiptDeleted,
	})
}

// List handles GET /purchases requests.
func (c *PurchaseController) List(ctx *gin.Context) {
	var query dto.ListPurchasesQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, "", err)
		return
	}

	result, err := c.listUseCase.Execute(ctx.Request.Context(), purchase.ListPurchasesInput{
		Page:  query.Page,
		Limit: query.Limit,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseListResponse(result))
}

// Get handles GET /purchases/:id requests.
func (c *PurchaseController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "purchase")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}

	response := dto.ToPurchaseResponse(output.Purchase)
	reversible := output.Reversible
	response.Reversible = &reversible
	ctx.JSON(http.StatusOK, response)
}

// Export handles GET /purchases/export requests with a spreadsheet of every purchase line.
func (c *PurchaseController) Export(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.exportUseCase.Execute(ctx.Request.Context(), &buf); err != nil {
		handleError(ctx, err)
		return
	}

	fileName := fmt.Sprintf("purchases-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	ctx.Data(http.StatusOK, c.exportUseCase.ContentType(), buf.Bytes())
}
