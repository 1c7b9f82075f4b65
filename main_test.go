package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr, false)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_FormatStdin(t *testing.T) {
	res := runCLI(t, `{"name": "John", "age": 30, "active": true}`, "format")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{\n    \"active\": true,\n    \"age\": 30,\n    \"name\": \"John\"\n}\n", res.stdout)
}

func TestRun_FormatPythonLiteral(t *testing.T) {
	res := runCLI(t, "{'id': 1, 'tags': ('a', 'b'), 'none': None,}", "format", "--indent", "2")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{\n  \"id\": 1,\n  \"none\": null,\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}\n", res.stdout)
}

func TestRun_FormatFileToFile(t *testing.T) {
	input := writeFile(t, "in.json", `{"b": [1, 2], "a": {"c": "d"}}`)
	output := filepath.Join(t.TempDir(), "out.json")

	res := runCLI(t, "", "format", "-i", input, "-o", output)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Output written to")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": {\n        \"c\": \"d\"\n    },\n    \"b\": [\n        1,\n        2\n    ]\n}", string(data))
}

func TestRun_Compress(t *testing.T) {
	res := runCLI(t, "{\n  \"userName\": \"x\",\n  \"id\": 2\n}", "compress", "--key-case", "snake")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{\"id\":2,\"user_name\":\"x\"}\n", res.stdout)
}

func TestRun_Validate(t *testing.T) {
	res := runCLI(t, `[1, 2, 3]`, "validate", "--locale", "en")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "Valid: the input was parsed successfully.\n", res.stdout)

	res = runCLI(t, `{a: }`, "validate", "--locale", "en")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Unable to parse the input.")
	assert.Contains(t, res.stderr, "JSON format error")
	assert.Contains(t, res.stderr, "Literal format error")
	assert.Contains(t, res.stderr, "{a: }\n    ^")
	assert.Contains(t, res.stderr, "• keys are wrapped in quotes")
}

func TestRun_ValidateChinese(t *testing.T) {
	res := runCLI(t, `[1,`, "--locale", "zh_CN.UTF-8", "validate")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "无法解析输入内容")
}

func TestRun_EmptyInput(t *testing.T) {
	res := runCLI(t, "   \n", "format", "--locale", "en")

	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Equal(t, "Please enter JSON content.\n", res.stderr)
}

func TestRun_NonExistentFile(t *testing.T) {
	res := runCLI(t, "", "format", "-i", filepath.Join(t.TempDir(), "missing.json"))

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "I/O error")
}

func TestRun_Repair(t *testing.T) {
	res := runCLI(t, `{"a": 1 "b": 2}`, "compress")
	assert.Equal(t, 1, res.code)

	res = runCLI(t, `{"a": 1 "b": 2}`, "--repair", "compress")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{\"a\":1,\"b\":2}\n", res.stdout)
}

func TestRun_Tree(t *testing.T) {
	res := runCLI(t, `{"name": "Ann", "tags": ["x", "y"], "addr": {"city": "Oslo"}}`, "tree")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, strings.Join([]string{
		"  name: Ann",
		"- tags: [2 items]",
		"    0: x",
		"    1: y",
		"- addr: ...",
		"    city: Oslo",
		"",
	}, "\n"), res.stdout)

	res = runCLI(t, `{"tags": ["x"], "n": null}`, "tree", "--collapse")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "+ tags: [1 items]\n  n: null\n", res.stdout)

	res = runCLI(t, `'hello'`, "tree")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "hello\n", res.stdout)
}

func TestRun_Timestamp(t *testing.T) {
	res := runCLI(t, "", "timestamp", "to-date", "1704164645", "-l", "UTC")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "2024-01-02 03:04:05\n", res.stdout)

	res = runCLI(t, "", "timestamp", "to-unix", "2024-01-02", "03:04:05", "-l", "UTC", "-u", "ms")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "1704164645000\n", res.stdout)

	res = runCLI(t, "", "timestamp", "to-date", "soon")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Timestamp error")

	res = runCLI(t, "", "timestamp", "now", "-u", "ms")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Len(t, strings.TrimSpace(res.stdout), 13)
}

func TestRun_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "devkit.yml", "formatting:\n  indent: 1\n  sort_keys: false\n")

	res := runCLI(t, `{"b": 1, "a": 2}`, "--config", cfg, "format")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{\n \"b\": 1,\n \"a\": 2\n}\n", res.stdout)

	bad := writeFile(t, "bad.yml", "formatting:\n  key_case: shouty\n")
	res = runCLI(t, `{}`, "--config", bad, "format")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Configuration error")
}

func TestRun_Interactive(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := &App{stdout: &stdout, stderr: &stderr, interactive: true}
	app.prompt = func(string) (string, error) { return `{"x": 1}`, nil }

	text, err := app.readInput("")
	require.NoError(t, err)
	assert.Equal(t, `{"x": 1}`, text)
}

func TestRun_WatchNeedsFile(t *testing.T) {
	res := runCLI(t, `{}`, "format", "--watch")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--watch needs an input file")
}

func TestRun_Watch(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	output := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(input, []byte(`[1]`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr bytes.Buffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"compress", "-i", input, "-o", output, "--watch"}, strings.NewReader(""), &stdout, &stderr, false)
	}()

	readOutput := func() string {
		data, _ := os.ReadFile(output)
		return string(data)
	}
	assert.Eventually(t, func() bool { return readOutput() == "[1]" }, 2*time.Second, 20*time.Millisecond)

	// a broken edit is reported and watching continues
	require.NoError(t, os.WriteFile(input, []byte(`[1,`), 0644))
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte(`{'k': 2}`), 0644))
	assert.Eventually(t, func() bool { return readOutput() == `{"k":2}` }, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestRun_BadArgs(t *testing.T) {
	res := runCLI(t, "", "frobnicate")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "For help, run: devkit --help")
}
