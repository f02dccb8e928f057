// internal/services/nft_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/providers/aiimage"
)

func TestBuildAttributeRowsPreservesOrder(t *testing.T) {
	nftID := uuid.New()
	attrs := []aiimage.Attribute{
		{TraitType: "Background", Value: "Blue"},
		{TraitType: "Animal", Value: "Fox"},
		{TraitType: "Weather", Value: "Rain"},
	}

	rows := buildAttributeRows(nftID, attrs, "a fox in the rain")

	require.Len(t, rows, 4)
	for i, attr := range attrs {
		assert.Equal(t, i, rows[i].Position)
		assert.Equal(t, attr.TraitType, rows[i].TraitType)
		assert.Equal(t, attr.Value, rows[i].Value)
		assert.Equal(t, nftID, rows[i].NFTID)
	}

	// The prompt trails the supplied attributes.
	assert.Equal(t, models.TraitTypePrompt, rows[3].TraitType)
	assert.Equal(t, "a fox in the rain", rows[3].Value)
	assert.Equal(t, len(attrs), rows[3].Position)
}

func TestBuildAttributeRowsWithoutPrompt(t *testing.T) {
	rows := buildAttributeRows(uuid.New(), []aiimage.Attribute{
		{TraitType: "Background", Value: "Blue"},
	}, "")

	require.Len(t, rows, 1)
	assert.Equal(t, "Background", rows[0].TraitType)
}

func TestBuildAttributeRowsEmpty(t *testing.T) {
	assert.Empty(t, buildAttributeRows(uuid.New(), nil, ""))
}

func TestLinkableCollection(t *testing.T) {
	assert.True(t, linkableCollection("coll-ext-1"))

	// The shared open collection is attributed but never stored as a
	// foreign key; no id at all means no link either.
	assert.False(t, linkableCollection(models.DefaultCollectionID))
	assert.False(t, linkableCollection(""))
}
