package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordCategoriesAndTags(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	cats, err := v.PasswordCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	require.NoError(t, v.SetPasswordCategories(ctx, []string{"work", "personal"}))
	cats, err = v.PasswordCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "personal"}, cats)

	require.NoError(t, v.SetPasswordTags(ctx, []string{"urgent"}))
	tags, err := v.PasswordTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent"}, tags)

	// Order is preserved as given.
	require.NoError(t, v.SetPasswordCategories(ctx, []string{"b", "a"}))
	cats, err = v.PasswordCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, cats)
}
