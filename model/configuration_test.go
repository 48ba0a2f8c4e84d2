package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	C "github.com/lesiontracker/tracker-server/constant"
)

func testConfiguration() *MeasurementConfiguration {
	return &MeasurementConfiguration{
		MeasurementTools: []MeasurementToolGroup{
			{
				Id: "targets",
				ChildTools: []MeasurementTool{
					{Id: C.ToolTypeBidirectional},
					{Id: "targetCR"},
				},
			},
			{
				Id:         "nonTargets",
				ChildTools: []MeasurementTool{{Id: C.ToolTypeNonTarget}},
			},
		},
	}
}

func TestConfiguration_FirstMeasurementType(t *testing.T) {
	first, err := testConfiguration().FirstMeasurementType()
	require.NoError(t, err)
	assert.Equal(t, C.ToolTypeBidirectional, first)

	_, err = (&MeasurementConfiguration{}).FirstMeasurementType()
	assert.Equal(t, C.EMPTY_MEASUREMENT_TOOLS, err)

	var nilConfig *MeasurementConfiguration
	_, err = nilConfig.FirstMeasurementType()
	assert.Equal(t, C.EMPTY_MEASUREMENT_TOOLS, err)

	_, err = (&MeasurementConfiguration{
		MeasurementTools: []MeasurementToolGroup{{Id: "empty"}, {Id: "targets", ChildTools: []MeasurementTool{{Id: "x"}}}},
	}).FirstMeasurementType()
	assert.Equal(t, C.EMPTY_TOOL_GROUP("empty"), err)
}

func TestConfiguration_GroupOf(t *testing.T) {
	config := testConfiguration()

	group := config.GroupOf("targetCR")
	require.NotNil(t, group)
	assert.Equal(t, "targets", group.Id)
	assert.Equal(t, []string{C.ToolTypeBidirectional, "targetCR"}, group.ToolIds())

	assert.True(t, config.HasTool(C.ToolTypeNonTarget))
	assert.False(t, config.HasTool(C.ToolTypeLength))
	assert.Nil(t, config.GroupOf(C.ToolTypeLength))
}

func TestConfiguration_Validate(t *testing.T) {
	assert.NoError(t, testConfiguration().Validate())

	assert.Error(t, (&MeasurementConfiguration{}).Validate())

	duplicated := testConfiguration()
	duplicated.MeasurementTools[1].ChildTools = append(duplicated.MeasurementTools[1].ChildTools, MeasurementTool{Id: "targetCR"})
	assert.Error(t, duplicated.Validate())

	noId := testConfiguration()
	noId.MeasurementTools[0].ChildTools[1].Id = ""
	assert.Error(t, noId.Validate())
}

func TestConfiguration_Load(t *testing.T) {
	config, err := LoadMeasurementConfiguration(filepath.Join("..", "data", "config", "measurement_tools.json"))
	require.NoError(t, err)

	first, err := config.FirstMeasurementType()
	require.NoError(t, err)
	assert.Equal(t, C.ToolTypeBidirectional, first)

	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"measurementTools": []}`), 0644))
	_, err = LoadMeasurementConfiguration(invalid)
	assert.Error(t, err)

	_, err = LoadMeasurementConfiguration(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
