package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/dto"
)

// handleError maps a use case error to an HTTP response. Coded domain
// errors keep their code and message; anything else is a 500.
func handleError(ctx *gin.Context, err error) {
	var (
		authErr     *domainerror.AuthError
		budgetErr   *domainerror.BudgetError
		categoryErr *domainerror.CategoryError
		productErr  *domainerror.ProductError
		listErr     *domainerror.ShoppingListError
		settleErr   *domainerror.SettlementError
	)

	switch {
	case errors.As(err, &settleErr):
		writeError(ctx, getStatusCodeForSettlementError(settleErr.Code), settleErr.Message, string(settleErr.Code))
	case errors.As(err, &productErr):
		writeError(ctx, getStatusCodeForProductError(productErr.Code), productErr.Message, string(productErr.Code))
	case errors.As(err, &listErr):
		writeError(ctx, getStatusCodeForShoppingListError(listErr.Code), listErr.Message, string(listErr.Code))
	case errors.As(err, &budgetErr):
		writeError(ctx, getStatusCodeForBudgetError(budgetErr.Code), budgetErr.Message, string(budgetErr.Code))
	case errors.As(err, &categoryErr):
		writeError(ctx, getStatusCodeForCategoryError(categoryErr.Code), categoryErr.Message, string(categoryErr.Code))
	case errors.As(err, &authErr):
		writeError(ctx, getStatusCodeForAuthError(authErr.Code), authErr.Message, string(authErr.Code))
	case errors.Is(err, domainerror.ErrConcurrentModification):
		writeError(ctx, http.StatusConflict, "The record was changed by someone else, please retry", "")
	default:
		slog.Error("Request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

func writeError(ctx *gin.Context, status int, message, code string) {
	ctx.JSON(status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// badRequest responds to a request that failed binding.
func badRequest(ctx *gin.Context, code string, err error) {
	resp := dto.ErrorResponse{
		Error: "Invalid request body",
		Code:  code,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	ctx.JSON(http.StatusBadRequest, resp)
}

// parseIDParam reads a UUID path parameter, writing a 400 when it is malformed.
func parseIDParam(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + label + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func getStatusCodeForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeUserNotFound,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case domainerror.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForBudgetError(code domainerror.BudgetErrorCode) int {
	switch code {
	case domainerror.ErrCodeBudgetNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidDepositAmount,
		domainerror.ErrCodeMissingBudgetFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeBudgetConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForCategoryError(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeCategoryNameExists,
		domainerror.ErrCodeCategoryInUse:
		return http.StatusConflict
	case domainerror.ErrCodeCategoryNameTooLong,
		domainerror.ErrCodeInvalidColorFormat,
		domainerror.ErrCodeCategoryNameRequired,
		domainerror.ErrCodeMissingCategoryFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForProductError(code domainerror.ProductErrorCode) int {
	switch code {
	case domainerror.ErrCodeProductNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeProductNameExists,
		domainerror.ErrCodeStockConflict:
		return http.StatusConflict
	case domainerror.ErrCodeInsufficientStock:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeProductNameRequired,
		domainerror.ErrCodeInvalidProductPrice,
		domainerror.ErrCodeInvalidProductQuantity,
		domainerror.ErrCodeInvalidMinStock,
		domainerror.ErrCodeProductCategoryMissing,
		domainerror.ErrCodeMissingProductFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForShoppingListError(code domainerror.ShoppingListErrorCode) int {
	switch code {
	case domainerror.ErrCodeShoppingListItemNotFound,
		domainerror.ErrCodeListProductNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidListQuantity,
		domainerror.ErrCodeMissingListFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForSettlementError(code domainerror.SettlementErrorCode) int {
	switch code {
	case domainerror.ErrCodeDraftItemNotFound,
		domainerror.ErrCodePurchaseNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeReceiptTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeReceiptType:
		return http.StatusUnsupportedMediaType
	case domainerror.ErrCodeEmptyDraft,
		domainerror.ErrCodeReceiptRequired,
		domainerror.ErrCodeInvalidDraftPrice,
		domainerror.ErrCodeMissingDraftFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeNoBudget,
		domainerror.ErrCodeConcurrentModification,
		domainerror.ErrCodeSettlementInProgress,
		domainerror.ErrCodeNotMostRecent:
		return http.StatusConflict
	case domainerror.ErrCodeReversalExpired:
		return http.StatusGone
	case domainerror.ErrCodeReceiptUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
