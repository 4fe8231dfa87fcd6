package reportlib

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsa-sandbox/sandbox-judge/src/types"
)

func init() {
	color.NoColor = true
}

func sampleResult() *types.Result {
	result := types.NewResult()
	result.Status = types.StatusTLE
	result.Detail = append(result.Detail,
		types.TestResult{Name: "t1", Status: types.StatusAC, Time: 0.01, Memory: 1200, Input: "3\n", Output: "9\n", Expect: "9\n"},
		types.TestResult{Name: "t2", Status: types.StatusTLE, Input: "loop\n", Expect: "0\n"},
	)
	result.Aggregate()
	return result
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "TLE", doc["status"])
	assert.Equal(t, 0.01, doc["max_time"])
	assert.Equal(t, float64(1200), doc["max_memory"])
	assert.Equal(t, "", doc["compile_log"])

	detail := doc["detail"].([]interface{})
	require.Len(t, detail, 2)
	second := detail[1].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"name": "t2", "status": "TLE", "time": float64(0), "memory": float64(0),
		"input": "loop\n", "output": "", "expect": "0\n",
	}, second)

	assert.Contains(t, buf.String(), "\n    \"status\": \"TLE\"")
}

func TestWriteJSONEmptyDetail(t *testing.T) {
	result := types.NewResult()
	result.Status = types.StatusCE
	result.CompileLog = "error: expected ';'\n"

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, result))
	assert.Contains(t, buf.String(), `"detail": []`)
	assert.NotContains(t, buf.String(), "null")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sampleResult())

	out := buf.String()
	assert.Contains(t, out, "t1")
	assert.Contains(t, out, "t2")
	assert.Contains(t, out, "TLE")
	assert.Contains(t, out, "1200")
}

func TestWriteTableCompileLog(t *testing.T) {
	result := types.NewResult()
	result.Status = types.StatusCE
	result.CompileLog = "square.c:1:1: error: expected ';'"

	var buf bytes.Buffer
	WriteTable(&buf, result)
	assert.Contains(t, buf.String(), "square.c:1:1: error: expected ';'")
}

func TestPublishUnreachable(t *testing.T) {
	err := Publish("nats://127.0.0.1:1", "results", sampleResult())
	assert.Error(t, err)
}
