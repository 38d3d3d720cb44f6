package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shopfrontapp/shopfront/internal/errors"
	"github.com/shopfrontapp/shopfront/internal/validation"
)

type searchParams struct {
	Query  string `query:"q" validate:"omitempty,max=200"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset int    `query:"offset" validate:"omitempty,gte=0"`
	Sort   string `query:"sort" validate:"omitempty,oneof=relevance title price stock"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	params := searchParams{
		Query: "federal 9mm",
		Limit: 20,
		Sort:  "price",
	}

	err := v.Validate(params)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		params    searchParams
		wantField string
	}{
		{
			name:      "query too long",
			params:    searchParams{Query: string(make([]byte, 201))},
			wantField: "q",
		},
		{
			name:      "limit too large",
			params:    searchParams{Limit: 500},
			wantField: "limit",
		},
		{
			name:      "negative offset",
			params:    searchParams{Offset: -1},
			wantField: "offset",
		},
		{
			name:      "unknown sort field",
			params:    searchParams{Sort: "color"},
			wantField: "sort",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.params)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_QueryFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(searchParams{Limit: 500})
	require.Error(t, err)

	// Should use the query tag name "limit", not the struct field name.
	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "limit")
	assert.NotContains(t, details, "Limit")
}
