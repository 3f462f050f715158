package utils_test

import (
	"testing"

	"selam/internal/utils"
	"selam/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchToMapSkipsNilFields(t *testing.T) {
	title := "New title"
	patch := types.UpdatePatch{Title: &title}

	fields := utils.PatchToMap(patch, "json")
	assert.Equal(t, map[string]any{"title": "New title"}, fields)
}

func TestPatchToMapEmptyStringIsSet(t *testing.T) {
	empty := ""
	patch := types.DocumentPatch{Description: &empty}

	fields := utils.PatchToMap(patch, "db")
	assert.Equal(t, map[string]any{"description": ""}, fields)
}

func TestPatchToMapPerTagKeys(t *testing.T) {
	status := "approved"
	patch := &types.ApplicationPatch{Status: &status}

	assert.Equal(t, map[string]any{"status": "approved"}, utils.PatchToMap(patch, "db"))
	assert.Equal(t, map[string]any{"status": "approved"}, utils.PatchToMap(patch, "json"))

	ptype := "funding"
	patch.PartnershipType = &ptype
	db := utils.PatchToMap(patch, "db")
	assert.Contains(t, db, "partnership_type")
	jsonFields := utils.PatchToMap(patch, "json")
	assert.Contains(t, jsonFields, "partnershipType")
}

func TestRecordToMapUsesJSONNames(t *testing.T) {
	doc := &types.Document{
		ID:      "d1",
		Title:   "Report",
		FileURL: "/uploads/documents/d1.pdf",
	}

	fields, err := utils.RecordToMap(doc)
	require.NoError(t, err)
	assert.Equal(t, "d1", fields["id"])
	assert.Equal(t, "/uploads/documents/d1.pdf", fields["fileUrl"])
}
