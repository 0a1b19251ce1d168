package util_test

import (
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"

	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/util"
)

func TestFalseIfNil(t *testing.T) {
	tests := []struct {
		name   string
		params types.GetSessionRouteParams
		want   bool
	}{
		{name: "refresh omitted", params: types.GetSessionRouteParams{}, want: false},
		{name: "refresh=false", params: types.GetSessionRouteParams{Refresh: swag.Bool(false)}, want: false},
		{name: "refresh=true", params: types.GetSessionRouteParams{Refresh: swag.Bool(true)}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, util.FalseIfNil(tt.params.Refresh))
		})
	}
}
