package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"galleryshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mapLookup backs the hierarchy walks with an in-memory folder tree.
func mapLookup(folders map[primitive.ObjectID]*models.Folder) folderLookup {
	return func(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
		folder, ok := folders[id]
		if !ok {
			return nil, fmt.Errorf("folder %s: %w", id.Hex(), ErrNotFound)
		}
		return folder, nil
	}
}

func buildTree() (map[primitive.ObjectID]*models.Folder, []primitive.ObjectID) {
	root := primitive.NewObjectID()
	child := primitive.NewObjectID()
	grandchild := primitive.NewObjectID()
	other := primitive.NewObjectID()

	folders := map[primitive.ObjectID]*models.Folder{
		root:       {ID: root, Name: "Wedding"},
		child:      {ID: child, Name: "Ceremony", ParentID: &root},
		grandchild: {ID: grandchild, Name: "Rings", ParentID: &child},
		other:      {ID: other, Name: "Unrelated"},
	}
	return folders, []primitive.ObjectID{root, child, grandchild, other}
}

func TestWalkBreadcrumb(t *testing.T) {
	folders, ids := buildTree()
	root, _, grandchild := ids[0], ids[1], ids[2]

	path, err := walkBreadcrumb(context.Background(), mapLookup(folders), grandchild)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, root, path[0].ID)
	assert.Equal(t, "Wedding", path[0].Name)
	assert.Equal(t, "Ceremony", path[1].Name)
	assert.Equal(t, "Rings", path[2].Name)
}

func TestWalkBreadcrumbOrphanFailsClosed(t *testing.T) {
	folders, ids := buildTree()
	child := ids[1]

	// Break the chain: the parent disappears but the child still points at it.
	delete(folders, ids[0])

	_, err := walkBreadcrumb(context.Background(), mapLookup(folders), child)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWalkBreadcrumbCycle(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	folders := map[primitive.ObjectID]*models.Folder{
		a: {ID: a, Name: "a", ParentID: &b},
		b: {ID: b, Name: "b", ParentID: &a},
	}

	_, err := walkBreadcrumb(context.Background(), mapLookup(folders), a)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestIsInSubtree(t *testing.T) {
	folders, ids := buildTree()
	root, child, grandchild, other := ids[0], ids[1], ids[2], ids[3]
	lookup := mapLookup(folders)
	ctx := context.Background()

	in, err := isInSubtree(ctx, lookup, grandchild, root)
	require.NoError(t, err)
	assert.True(t, in)

	in, err = isInSubtree(ctx, lookup, root, root)
	require.NoError(t, err)
	assert.True(t, in)

	in, err = isInSubtree(ctx, lookup, other, root)
	require.NoError(t, err)
	assert.False(t, in)

	// A parent is not inside its child's subtree.
	in, err = isInSubtree(ctx, lookup, root, child)
	require.NoError(t, err)
	assert.False(t, in)
}

func TestIsInSubtreeOrphanFailsClosed(t *testing.T) {
	folders, ids := buildTree()
	root, grandchild := ids[0], ids[2]

	delete(folders, ids[1])

	_, err := isInSubtree(context.Background(), mapLookup(folders), grandchild, root)
	assert.True(t, errors.Is(err, ErrNotFound))
}
