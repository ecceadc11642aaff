package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListFlagsUpdateOmitsUnsetFilters(t *testing.T) {
	update := listFlags{page: 3}.update()
	require.Nil(t, update.Category)
	require.Nil(t, update.Search)
	require.Nil(t, update.PageSize)

	update = listFlags{category: 4, search: "desk", pageSize: 25}.update()
	require.Equal(t, int64(4), *update.Category)
	require.Equal(t, "desk", *update.Search)
	require.Equal(t, 25, *update.PageSize)
}

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	require.NoError(t, err)
	require.Equal(t, int64(12), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(raw)
		require.Error(t, err, raw)
	}
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{
		{"products", "list"},
		{"products", "featured"},
		{"products", "show"},
		{"products", "feature"},
		{"products", "delete"},
		{"products", "add-to-cart"},
		{"cart", "show"},
		{"cart", "update"},
		{"cart", "remove"},
		{"cart", "clear"},
		{"categories", "list"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		require.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestDeleteRequiresArgument(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"products", "delete"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	require.Error(t, root.Execute())
}
