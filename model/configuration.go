package model

import (
	"encoding/json"
	"fmt"
	"os"

	v "github.com/go-ozzo/ozzo-validation/v4"

	C "github.com/lesiontracker/tracker-server/constant"
)

// 計測ツール。
type MeasurementTool struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func (t MeasurementTool) Validate() error {
	return v.ValidateStruct(&t,
		v.Field(&t.Id, v.Required),
	)
}

// 計測ツールグループ。子ツールは宣言順を保持する。
type MeasurementToolGroup struct {
	Id         string            `json:"id"`
	Name       string            `json:"name"`
	ChildTools []MeasurementTool `json:"childTools"`
}

func (g MeasurementToolGroup) Validate() error {
	return v.ValidateStruct(&g,
		v.Field(&g.Id, v.Required),
		v.Field(&g.ChildTools, v.Required),
	)
}

// 計測種別の静的設定。
type MeasurementConfiguration struct {
	MeasurementTools []MeasurementToolGroup `json:"measurementTools"`
}

func (c MeasurementConfiguration) Validate() error {
	return v.ValidateStruct(&c,
		v.Field(&c.MeasurementTools, v.Required, v.By(uniqueToolIds)),
	)
}

func uniqueToolIds(value interface{}) error {
	groups, _ := value.([]MeasurementToolGroup)

	seen := map[string]bool{}
	for _, g := range groups {
		for _, t := range g.ChildTools {
			if seen[t.Id] {
				return fmt.Errorf("tool %s is declared more than once", t.Id)
			}
			seen[t.Id] = true
		}
	}
	return nil
}

// 最初のグループの最初の子ツールの種別IDを返す。
func (c *MeasurementConfiguration) FirstMeasurementType() (string, error) {
	if c == nil || len(c.MeasurementTools) == 0 {
		return "", C.EMPTY_MEASUREMENT_TOOLS
	}

	group := c.MeasurementTools[0]
	if len(group.ChildTools) == 0 {
		return "", C.EMPTY_TOOL_GROUP(group.Id)
	}

	return group.ChildTools[0].Id, nil
}

// ツール種別が属するグループを返す。
func (c *MeasurementConfiguration) GroupOf(toolType string) *MeasurementToolGroup {
	for i := range c.MeasurementTools {
		for _, t := range c.MeasurementTools[i].ChildTools {
			if t.Id == toolType {
				return &c.MeasurementTools[i]
			}
		}
	}
	return nil
}

func (c *MeasurementConfiguration) HasTool(toolType string) bool {
	return c.GroupOf(toolType) != nil
}

func (g *MeasurementToolGroup) ToolIds() []string {
	ids := make([]string, 0, len(g.ChildTools))
	for _, t := range g.ChildTools {
		ids = append(ids, t.Id)
	}
	return ids
}

// JSONファイルから設定を読み込み、検証する。
func LoadMeasurementConfiguration(path string) (*MeasurementConfiguration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &MeasurementConfiguration{}
	if e := json.Unmarshal(b, config); e != nil {
		return nil, e
	}

	if e := config.Validate(); e != nil {
		return nil, e
	}

	return config, nil
}
