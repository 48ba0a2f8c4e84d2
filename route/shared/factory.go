package shared

import (
	"reflect"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"gopkg.in/gorp.v2"

	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/model"
	S "github.com/lesiontracker/tracker-server/service"
)

// CreateService サービスのフィールドの型に応じてリクエストスコープの資源を注入する。
func CreateService(obj interface{}, c echo.Context) interface{} {
	cc, ok := c.(*Context)
	if !ok {
		cc = &Context{c}
	}

	t := reflect.TypeOf(obj)

	v := reflect.New(t)
	e := v.Elem()

	for i := 0; i < e.NumField(); i++ {
		valueField := e.Field(i)
		typeField := t.Field(i)
		valueType := typeField.Type

		if valueType.Kind() == reflect.Ptr {
			valueType = valueType.Elem()
		}
		if valueType == reflect.TypeOf(gorp.DbMap{}) {
			if db := cc.GetReadDB(); db != nil {
				valueField.Set(reflect.ValueOf(db))
			}
		} else if valueType == reflect.TypeOf(gorp.Transaction{}) {
			if tx := cc.GetTransaction(); tx != nil {
				valueField.Set(reflect.ValueOf(tx))
			}
		} else if valueType == reflect.TypeOf((*lib.InfluxDBClient)(nil)).Elem() {
			if client := lib.GetInfluxDB(); client != nil {
				valueField.Set(reflect.ValueOf(client))
			}
		} else if valueType == reflect.TypeOf(lib.Localizer{}) {
			valueField.Set(reflect.ValueOf(cc.Localizer()))
		} else if valueType == reflect.TypeOf(model.MeasurementConfiguration{}) {
			if config := S.MeasurementConfig(); config != nil {
				valueField.Set(reflect.ValueOf(config))
			}
		} else if valueType == reflect.TypeOf(S.SessionRegistry{}) {
			if registry := S.Sessions(); registry != nil {
				valueField.Set(reflect.ValueOf(registry))
			}
		} else if valueType == reflect.TypeOf(cache.Cache{}) {
			if pc := S.PatientCache(); pc != nil {
				valueField.Set(reflect.ValueOf(pc))
			}
		} else if valueType == reflect.TypeOf(S.Service{}) {
			valueField.Set(reflect.ValueOf(&S.Service{
				Log: cc.Log(),
			}))
		}
	}

	return v.Interface()
}
