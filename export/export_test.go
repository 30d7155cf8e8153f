package export

import (
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []Row {
	return []Row{
		{Serial: 1, DisplayName: "John Doe", ShortName: "johndoe", Link: "https://x.com/johndoe"},
		{Serial: 2, DisplayName: "Jane Roe", ShortName: "janeroe", Link: "https://x.com/janeroe"},
	}
}

func TestExcel(t *testing.T) {
	path, err := Excel("SpaceA", sampleRows())
	require.NoError(t, err)
	defer os.Remove(path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("SpaceA")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"S/N", "Discord Name", "X Username", "X Link"}, rows[0])
	assert.Equal(t, "John Doe", rows[1][1])
	assert.Equal(t, "janeroe", rows[2][2])
}

func TestExcelLongSheetName(t *testing.T) {
	path, err := Excel("a-very-long-space-name-exceeding-the-sheet-limit", sampleRows())
	require.NoError(t, err)
	defer os.Remove(path)
}

func TestPDF(t *testing.T) {
	path, err := PDF("SpaceA", sampleRows())
	require.NoError(t, err)
	defer os.Remove(path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPNG(t *testing.T) {
	path, err := PNG("SpaceA", sampleRows())
	require.NoError(t, err)
	defer os.Remove(path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	// one title row, one header row, two winner rows plus padding
	assert.Equal(t, 36*4+24, img.Bounds().Dy())
}

func TestTempPathSanitizesName(t *testing.T) {
	path := tempPath("../evil name", "png")
	assert.NotContains(t, path, "..")
	assert.Contains(t, path, "evil_name")
}
