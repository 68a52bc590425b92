package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsignal/internal/domain/entity"
)

func TestVader_ScoreBatch(t *testing.T) {
	v := NewVader()

	results, err := v.ScoreBatch(context.Background(), []string{
		"Stocks surged as excellent earnings delighted investors",
		"The company collapsed into bankruptcy after terrible losses",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, entity.LabelPositive, results[0].Label)
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, entity.LabelNegative, results[1].Label)
	assert.Less(t, results[1].Score, 0.0)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, -1.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestVader_ScoreBatch_Empty(t *testing.T) {
	v := NewVader()
	results, err := v.ScoreBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVader_ScoreBatch_CancelledContext(t *testing.T) {
	v := NewVader()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.ScoreBatch(ctx, []string{"anything"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, entity.LabelPositive, labelFor(0.20))
	assert.Equal(t, entity.LabelPositive, labelFor(0.9))
	assert.Equal(t, entity.LabelNegative, labelFor(-0.20))
	assert.Equal(t, entity.LabelNegative, labelFor(-0.9))
	assert.Equal(t, entity.LabelNeutral, labelFor(0.0))
	assert.Equal(t, entity.LabelNeutral, labelFor(0.19))
	assert.Equal(t, entity.LabelNeutral, labelFor(-0.19))
}
