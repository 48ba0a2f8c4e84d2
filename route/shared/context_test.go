package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesiontracker/tracker-server/test"
)

func TestContext_Commit(t *testing.T) {
	test.SetupDatabase(t)

	e := echo.New()
	c := &Context{e.NewContext(httptest.NewRequest(http.MethodPut, "/", nil), httptest.NewRecorder())}

	first := c.GetTransaction()
	require.NotNil(t, first)
	assert.Same(t, first, c.GetTransaction())

	require.NoError(t, c.Commit())

	// 確定後の取得で新たなトランザクションが開始される。
	second := c.GetTransaction()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)

	c.Rollback()

	// トランザクションが無い場合は何もしない。
	assert.NoError(t, c.Commit())
}
