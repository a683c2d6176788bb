package ncseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hydroio/ncseries/ncio"
	"github.com/hydroio/ncseries/series"
	"github.com/hydroio/ncseries/timegrid"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	first := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	grid, err := timegrid.New(first, time.Hour, 24)
	require.NoError(t, err)

	element, err := series.New("basin_1", "hland_96", "soilmoisture", []int{3}, grid)
	require.NoError(t, err)
	node, err := series.NewNode("gauge_1", "discharge", grid)
	require.NoError(t, err)
	for i, vals := 0, element.Values(); i < len(vals); i++ {
		vals[i] = float64(i) * 0.5
	}
	for i, vals := 0, node.Values(); i < len(vals); i++ {
		vals[i] = float64(i) * 2
	}

	opts := []ncio.Option{
		ncio.WithFlatten(true),
		ncio.WithDirectories(dir, dir, dir),
	}
	writer, err := NewWriter(grid, opts...)
	require.NoError(t, err)
	require.NoError(t, writer.Log(element, nil))
	require.NoError(t, writer.Log(node, nil))
	require.NoError(t, writer.Write())
	require.ElementsMatch(t, []string{"hland_96", "node"}, writer.FileNames())

	freshElement, err := series.New("basin_1", "hland_96", "soilmoisture", []int{3}, grid)
	require.NoError(t, err)
	freshNode, err := series.NewNode("gauge_1", "discharge", grid)
	require.NoError(t, err)

	reader, err := NewReader(opts...)
	require.NoError(t, err)
	require.NoError(t, reader.Log(freshElement, nil))
	require.NoError(t, reader.Log(freshNode, nil))
	require.NoError(t, reader.Read())

	require.Equal(t, element.Values(), freshElement.Values())
	require.Equal(t, node.Values(), freshNode.Values())
}

func TestNewWriter_RequiresGrid(t *testing.T) {
	_, err := NewWriter(nil)
	require.Error(t, err)
}
