package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newshub/internal/common/pagination"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pagination.Config{DefaultPage: 1, DefaultLimit: 12, MaxLimit: 50}, pagination.DefaultConfig())
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name string
		def  string
		max  string
		want pagination.Config
	}{
		{name: "unset", want: pagination.DefaultConfig()},
		{name: "both set", def: "24", max: "96", want: pagination.Config{DefaultPage: 1, DefaultLimit: 24, MaxLimit: 96}},
		{name: "garbage falls back", def: "abc", max: "-1", want: pagination.DefaultConfig()},
		{name: "default above max is lowered", def: "80", max: "40", want: pagination.Config{DefaultPage: 1, DefaultLimit: 40, MaxLimit: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PAGINATION_DEFAULT_LIMIT", tt.def)
			t.Setenv("PAGINATION_MAX_LIMIT", tt.max)

			assert.Equal(t, tt.want, pagination.LoadFromEnv())
		})
	}
}
