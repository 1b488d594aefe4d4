package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreativeGenerator(t *testing.T) {
	tests := []struct {
		name     string
		args     Args
		wantLen  int
		wantURL  string
		wantText string
	}{
		{
			name:     "значения по умолчанию",
			args:     Args{},
			wantLen:  1,
			wantURL:  "http://affwp.test/cli",
			wantText: "AffWP Test",
		},
		{
			name:     "явные параметры",
			args:     Args{"count": "3", "creative_url": "http://affiliatewp.com", "text": "Buy now"},
			wantLen:  3,
			wantURL:  "http://affiliatewp.com",
			wantText: "Buy now",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, mem := newTestSuite(t)

			ids, err := suite.Creative.Run(context.Background(), tt.args)
			require.NoError(t, err)
			assert.Len(t, ids, tt.wantLen)

			for _, c := range mem.Creatives() {
				assert.Equal(t, "Generated Creative", c.Name)
				assert.Equal(t, "CLI generated creative.", c.Description)
				assert.Equal(t, tt.wantURL, c.URL)
				assert.Equal(t, tt.wantText, c.Text)
				assert.Equal(t, "active", c.Status)
			}
		})
	}
}

func TestCreativeGeneratorZeroCount(t *testing.T) {
	suite, mem := newTestSuite(t)

	_, err := suite.Creative.Run(context.Background(), Args{"count": "0"})
	assert.ErrorIs(t, err, ErrUsage)
	assert.Empty(t, mem.Creatives())
}
