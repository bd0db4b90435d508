package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserGesture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	require.False(t, IsUserGesture(ctx))

	marked := WithUserGesture(ctx)
	require.True(t, IsUserGesture(marked))

	child, cancel := context.WithCancel(marked)
	defer cancel()

	require.True(t, IsUserGesture(child))
}
