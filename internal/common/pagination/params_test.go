package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/common/pagination"
	"newshub/internal/domain/entity"
)

func TestParseQueryParams(t *testing.T) {
	t.Parallel()

	config := pagination.DefaultConfig()

	tests := []struct {
		name      string
		query     string
		want      pagination.Params
		wantField string
	}{
		{name: "defaults", query: "", want: pagination.Params{Page: 1, Limit: 12}},
		{name: "both", query: "page=2&limit=30", want: pagination.Params{Page: 2, Limit: 30}},
		{name: "limit at max", query: "limit=50", want: pagination.Params{Page: 1, Limit: 50}},
		{name: "page zero", query: "page=0", wantField: "page"},
		{name: "page not a number", query: "page=two", wantField: "page"},
		{name: "limit above max", query: "limit=51", wantField: "limit"},
		{name: "negative limit", query: "limit=-1", wantField: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/articles?"+tt.query, nil)

			got, err := pagination.ParseQueryParams(r, config)

			if tt.wantField != "" {
				var ve *entity.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParams_ValidateAndDefaults(t *testing.T) {
	t.Parallel()

	config := pagination.DefaultConfig()

	tests := []struct {
		name    string
		params  pagination.Params
		valid   bool
		applied pagination.Params
	}{
		{name: "valid", params: pagination.Params{Page: 1, Limit: 12}, valid: true, applied: pagination.Params{Page: 1, Limit: 12}},
		{name: "zeros", params: pagination.Params{}, applied: pagination.Params{Page: 1, Limit: 12}},
		{name: "over max", params: pagination.Params{Page: 3, Limit: 500}, applied: pagination.Params{Page: 3, Limit: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate(config)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, entity.ErrValidationFailed)
			}
			assert.Equal(t, tt.applied, tt.params.WithDefaults(config))
		})
	}
}
