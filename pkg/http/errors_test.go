package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusError(t *testing.T) {
	assert.Equal(t, "ERR_BAD_REQUEST", BadRequestError("x").Code)
	assert.Equal(t, http.StatusServiceUnavailable, ServiceUnavailableError("x").Status)
	assert.Equal(t, "ERR_418", StatusError(http.StatusTeapot, "x").Code)

	cause := errors.New("dial tcp")
	e := InternalError("boom").WithError(cause)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "boom: dial tcp", e.Error())
}

func TestAppErrorResponseWritesStatus(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := AppErrorResponse(c, NotFoundError("user missing").WithParam("operation", "watchlist").WithError(errors.New("hidden")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Status int `json:"status"`
		Data   []struct {
			Code    string                 `json:"code"`
			Message string                 `json:"message"`
			Params  map[string]interface{} `json:"params"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ERR_NOT_FOUND", body.Data[0].Code)
	assert.Equal(t, "watchlist", body.Data[0].Params["operation"])
	assert.NotContains(t, rec.Body.String(), "hidden")
}

func TestAppErrorResponsePlainError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, AppErrorResponse(c, errors.New("x")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type pingReq struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	Mode    string `query:"mode" json:"mode" default:"daily" validate:"oneof=daily minute"`
}

func TestReadAndValidateRequest(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?symbols=A", nil), httptest.NewRecorder())
	req := &pingReq{}
	assert.Nil(t, ReadAndValidateRequest(c, req))
	assert.Equal(t, "daily", req.Mode)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?mode=hourly", nil), httptest.NewRecorder())
	verr := ReadAndValidateRequest(c, &pingReq{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	fields := map[string]bool{}
	for _, ve := range errs {
		fields[ve.Field] = true
	}
	assert.True(t, fields["symbols"])
	assert.True(t, fields["mode"])
}
