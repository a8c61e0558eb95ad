package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountSet(t *testing.T) {
	assert.Zero(t, CountSet())
	assert.Equal(t, 2, CountSet(true, false, true))
}

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		wantErr string
	}{
		{name: "exactly one", sources: []bool{false, true, false}},
		{name: "none", sources: []bool{false, false}, wantErr: "no source"},
		{name: "no flags", sources: nil, wantErr: "no source"},
		{name: "several", sources: []bool{true, true}, wantErr: "too many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("no source", "too many", tt.sources...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
