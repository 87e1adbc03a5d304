package chaingate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		chainID    string
		authorized bool
	}{
		{"cca", true},
		{"CCA", false},
		{"", false},
		{"cosmoshub-4", false},
		{"cca ", false},
	}
	for _, tt := range tests {
		t.Run(tt.chainID, func(t *testing.T) {
			assert.Equal(t, tt.authorized, Check(tt.chainID).Authorized)
		})
	}
}
