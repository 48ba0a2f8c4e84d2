package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
)

type HttpTest struct {
	Name   string
	Method string
	Token  string
	Path   string
	Query  func(url.Values)
	Body   func() (io.Reader, string)
	Header func(map[string]string)
	Check  func(*testing.T, *httptest.ResponseRecorder)
}

type HttpTests []HttpTest

// JsonBody JSONのリクエストボディ。
func JsonBody(body interface{}) func() (io.Reader, string) {
	return func() (io.Reader, string) {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		return bytes.NewReader(b), echo.MIMEApplicationJSON
	}
}

// Run 各テストの前にsetupを実行し、リクエストを送信して結果を検証する。
func (tests HttpTests) Run(handler *echo.Echo, t *testing.T, setup func()) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if setup != nil {
				setup()
			}

			path := tt.Path
			if tt.Query != nil {
				q := url.Values{}
				tt.Query(q)
				path = path + "?" + q.Encode()
			}

			var body io.Reader
			contentType := ""
			if tt.Body != nil {
				body, contentType = tt.Body()
			}

			req := httptest.NewRequest(tt.Method, path, body)
			if contentType != "" {
				req.Header.Set(echo.HeaderContentType, contentType)
			}
			if tt.Token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.Token)
			}
			if tt.Header != nil {
				headers := map[string]string{}
				tt.Header(headers)
				for k, v := range headers {
					req.Header.Set(k, v)
				}
			}

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			tt.Check(t, rec)
		})
	}
}
