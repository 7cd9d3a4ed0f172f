package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalog-assistant/internal/models"
)

func TestExportWorkbook(t *testing.T) {
	records := []models.GenericRecord{
		{"status": "active", "name": "Acme", "id": "s1", "code": "AC"},
		{"name": "Borealis", "id": "s2", "description": nil},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportWorkbook(&buf, "suppliers", records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "suppliers", f.GetSheetName(0))

	rows, err := f.GetRows("suppliers")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "name", "code", "description", "status"}, rows[0])
	assert.Equal(t, []string{"s1", "Acme", "AC", "", "active"}, rows[1])
	assert.Equal(t, []string{"s2", "Borealis"}, rows[2])
}

func TestExportColumns_Empty(t *testing.T) {
	assert.Empty(t, exportColumns(nil))
}
