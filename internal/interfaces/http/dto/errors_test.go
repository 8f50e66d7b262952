package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"INVALID_STATE", http.StatusConflict},
		{"DUPLICATE_REQUEST", http.StatusConflict},
		{"SKU_EXISTS", http.StatusConflict},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"QUANTITY_EXCEEDED", http.StatusUnprocessableEntity},
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"INVALID_TENANT", http.StatusBadRequest},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"SOMETHING_ODD", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestListRequestToFilter(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		filter := ListRequest{}.ToFilter()
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.NotNil(t, filter.Filters)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		filter := ListRequest{Page: 3, PageSize: 50, OrderBy: "order_number", OrderDir: "asc", Search: "PO-"}.ToFilter()
		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
		assert.Equal(t, "order_number", filter.OrderBy)
		assert.Equal(t, "PO-", filter.Search)
	})
}
