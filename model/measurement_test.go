package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurement_GroupRows(t *testing.T) {
	ms := []*Measurement{
		{Id: "a", MeasurementNumber: 5},
		{Id: "b", MeasurementNumber: 3},
		{Id: "c", MeasurementNumber: 5},
		{Id: "d", MeasurementNumber: 1},
	}

	rows := GroupRows("bidirectional", ms)

	require.Len(t, rows, 3)
	assert.Equal(t, 5, rows[0].MeasurementNumber)
	assert.Equal(t, 3, rows[1].MeasurementNumber)
	assert.Equal(t, 1, rows[2].MeasurementNumber)

	assert.Equal(t, "bidirectional", rows[0].MeasurementTypeId)
	require.Len(t, rows[0].Entries, 2)
	assert.Same(t, ms[0], rows[0].Entries[0])
	assert.Same(t, ms[2], rows[0].Entries[1])

	assert.Empty(t, GroupRows("bidirectional", nil))
}
