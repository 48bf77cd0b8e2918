package category

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-ledger/backend/internal/application/usecase/usecasetest"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

func categoryCode(t *testing.T, err error) domainerror.CategoryErrorCode {
	t.Helper()
	var categoryErr *domainerror.CategoryError
	require.True(t, errors.As(err, &categoryErr), "expected CategoryError, got %v", err)
	return categoryErr.Code
}

func strPtr(s string) *string { return &s }

func TestCreateCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    CreateCategoryInput
		wantCode domainerror.CategoryErrorCode
	}{
		{name: "defaults applied", input: CreateCategoryInput{Name: "Hygiene"}},
		{name: "blank name", input: CreateCategoryInput{Name: " "}, wantCode: domainerror.ErrCodeCategoryNameRequired},
		{name: "too long", input: CreateCategoryInput{Name: strings.Repeat("a", MaxCategoryNameLength+1)}, wantCode: domainerror.ErrCodeCategoryNameTooLong},
		{name: "bad color", input: CreateCategoryInput{Name: "Snacks", Color: "red"}, wantCode: domainerror.ErrCodeInvalidColorFormat},
		{name: "duplicate ignoring case", input: CreateCategoryInput{Name: "grains"}, wantCode: domainerror.ErrCodeCategoryNameExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := usecasetest.NewLedger()
			ledger.SeedCategory("Grains")
			uc := NewCreateCategoryUseCase(ledger.Categories())

			out, err := uc.Execute(context.Background(), tt.input)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, categoryCode(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.DefaultCategoryColor, out.Category.Color)
			assert.Equal(t, entity.DefaultCategoryIcon, out.Category.Icon)
		})
	}
}

func TestUpdateCategory(t *testing.T) {
	ledger := usecasetest.NewLedger()
	grains := ledger.SeedCategory("Grains")
	ledger.SeedCategory("Hygiene")
	uc := NewUpdateCategoryUseCase(ledger.Categories())

	_, err := uc.Execute(context.Background(), UpdateCategoryInput{CategoryID: grains.ID, Name: strPtr("HYGIENE")})
	assert.Equal(t, domainerror.ErrCodeCategoryNameExists, categoryCode(t, err))

	out, err := uc.Execute(context.Background(), UpdateCategoryInput{CategoryID: grains.ID, Name: strPtr("Cereals"), Color: strPtr("#abc")})
	require.NoError(t, err)
	assert.Equal(t, "Cereals", out.Category.Name)
	assert.Equal(t, "#abc", ledger.State.Categories[grains.ID].Color)

	_, err = uc.Execute(context.Background(), UpdateCategoryInput{CategoryID: uuid.New()})
	assert.Equal(t, domainerror.ErrCodeCategoryNotFound, categoryCode(t, err))
}

func TestDeleteCategory(t *testing.T) {
	ledger := usecasetest.NewLedger()
	grains := ledger.SeedCategory("Grains")
	empty := ledger.SeedCategory("Empty")
	rice := ledger.SeedProduct("Rice", "1.00", 1)
	ledger.State.Products[rice.ID].CategoryID = &grains.ID
	uc := NewDeleteCategoryUseCase(ledger.Categories(), ledger.Products())

	err := uc.Execute(context.Background(), DeleteCategoryInput{CategoryID: grains.ID})
	assert.Equal(t, domainerror.ErrCodeCategoryInUse, categoryCode(t, err))
	assert.Contains(t, ledger.State.Categories, grains.ID)

	require.NoError(t, uc.Execute(context.Background(), DeleteCategoryInput{CategoryID: empty.ID}))
	assert.NotContains(t, ledger.State.Categories, empty.ID)
}

func TestListCategories_CountsProducts(t *testing.T) {
	ledger := usecasetest.NewLedger()
	grains := ledger.SeedCategory("Grains")
	ledger.SeedCategory("Hygiene")
	for _, name := range []string{"Rice", "Oats"} {
		p := ledger.SeedProduct(name, "1.00", 1)
		ledger.State.Products[p.ID].CategoryID = &grains.ID
	}

	out, err := NewListCategoriesUseCase(ledger.Categories()).Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Categories, 2)
	assert.Equal(t, "Grains", out.Categories[0].Category.Name)
	assert.Equal(t, 2, out.Categories[0].ProductCount)
	assert.Equal(t, 0, out.Categories[1].ProductCount)
}
