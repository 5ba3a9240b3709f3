package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"PhonePortal/internal/handler/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample_sales.csv"),
		[]byte("date,sales\n2024-01-15,100\n2024-02-10,120\n2024-03-05,140\n"), 0o644))
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "log:\n  level: error\nstorage:\n  data_dir: " + dir + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestForecastCommandTable(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	out, err := runCLI(t, "forecast", "--config", cfgPath, "--freq", "M", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "observations=3 freq=M")
	assert.Contains(t, out, "2024-04-01")
	assert.Contains(t, out, "160.00")
}

func TestForecastCommandJSONFromFile(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	csvPath := filepath.Join(dir, "upload.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("date,sales\n2024-01-01,1\n2024-01-02,2\n"), 0o644))

	out, err := runCLI(t, "forecast", "--config", cfgPath, "--file", csvPath, "--freq", "D", "--periods", "1", "--format", "json")
	require.NoError(t, err)
	var res api.ForecastResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "upload", res.Source)
	require.Len(t, res.Forecast, 1)
	assert.Equal(t, "2024-01-03", res.Forecast[0].Date)
	assert.InDelta(t, 3, res.Forecast[0].YHat, 1e-9)
}

func TestForecastCommandRejectsUnknownFormat(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	_, err := runCLI(t, "forecast", "--config", cfgPath, "--format", "xml")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown format"))
}

func TestImportSalesNeedsBackend(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	_, err := runCLI(t, "import-sales", "--config", cfgPath, "--file", filepath.Join(dir, "sample_sales.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sales backend "clickhouse" is not enabled`)
}
