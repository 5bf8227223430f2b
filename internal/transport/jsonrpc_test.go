package transport

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"test","params":{"a":1},"id":1}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "test", req.Method)
	require.Equal(t, json.RawMessage(`{"a":1}`), req.Params)
}

func TestParseRequest_Invalid(t *testing.T) {
	_, err := ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0","id":1}`))
	require.ErrorIs(t, err, errInvalidRequest)

	_, err = ParseRequest(bytes.NewBufferString(`{"jsonrpc":"1.0","method":"get_trend","id":1}`))
	require.ErrorIs(t, err, errInvalidRequest)

	_, err = ParseRequest(bytes.NewBufferString(`{"jsonrpc":`))
	require.ErrorIs(t, err, errParse)
	require.NotErrorIs(t, err, errInvalidRequest)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 3, ErrApplication, "project not found", apiError{Code: "PROJECT_NOT_FOUND", Message: "project not found"})

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		JSONRPC string `json:"jsonrpc"`
		ID      int    `json:"id"`
		Error   struct {
			Code int      `json:"code"`
			Data apiError `json:"data"`
		} `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2.0", resp.JSONRPC)
	require.Equal(t, 3, resp.ID)
	require.Equal(t, ErrApplication, resp.Error.Code)
	require.Equal(t, "PROJECT_NOT_FOUND", resp.Error.Data.Code)
	require.Nil(t, resp.Result)
}

func TestWriteResult(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResult(rec, "req-1", map[string]int{"total": 2})

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Error)
	require.Equal(t, "req-1", resp.ID)
	require.Equal(t, map[string]any{"total": float64(2)}, resp.Result)
}
