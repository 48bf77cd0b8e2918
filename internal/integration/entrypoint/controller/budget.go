package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pantry-ledger/backend/internal/application/usecase/budget"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/middleware"
)

// BudgetController handles budget endpoints.
type BudgetController struct {
	getUseCase     *budget.GetBudgetUseCase
	depositUseCase *budget.DepositUseCase
	historyUseCase *budget.ListHistoryUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	getUseCase *budget.GetBudgetUseCase,
	depositUseCase *budget.DepositUseCase,
	historyUseCase *budget.ListHistoryUseCase,
) *BudgetController {
	return &BudgetController{
		getUseCase:     getUseCase,
		depositUseCase: depositUseCase,
		historyUseCase: historyUseCase,
	}
}

// Get handles GET /budget requests.
func (c *BudgetController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}

	response := dto.ToBudgetResponse(output.Budget)
	response.HistoryTotal = dto.Money(output.HistoryTotal)
	consistent := output.Consistent
	response.Consistent = &consistent
	ctx.JSON(http.StatusOK, response)
}

// Deposit handles POST /budget/deposits requests.
func (c *BudgetController) Deposit(ctx *gin.Context) {
	var req dto.DepositRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, string(domainerror.ErrCodeMissingBudgetFields), err)
		return
	}

	input := budget.DepositInput{Amount: *req.Amount}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		input.ActorID = &userID
	}

	output, err := c.depositUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.DepositResponse{
		Budget: dto.ToBudgetResponse(output.Budget),
		Entry:  dto.ToBudgetEntryResponse(output.Entry),
	})
}

// History handles GET /budget/history requests.
// The optional limit query parameter caps the number of entries, newest first.
func (c *BudgetController) History(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(ctx, http.StatusBadRequest, "limit must be a non-negative integer", string(domainerror.ErrCodeMissingBudgetFields))
			return
		}
		limit = n
	}

	output, err := c.historyUseCase.Execute(ctx.Request.Context(), budget.ListHistoryInput{Limit: limit})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetHistoryResponse(output.Entries))
}
