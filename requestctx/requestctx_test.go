package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithNewIDStampsRetrievableID(t *testing.T) {
	ctx, id := WithNewID(context.Background())
	assert.NotEmpty(t, id)

	got, ok := IDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestIDFromContextAbsentReturnsFalse(t *testing.T) {
	_, ok := IDFromContext(context.Background())
	assert.False(t, ok)
}
