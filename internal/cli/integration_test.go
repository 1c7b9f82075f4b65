package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devkit(args ...string) *exec.Cmd {
	cmd := exec.Command("go", append([]string{"run", "../.."}, args...)...)
	cmd.Env = append(os.Environ(), "DEVKIT_LOCALE=en")
	return cmd
}

// TestCLI_FileInputOutput tests the CLI with file input and output
func TestCLI_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		'name': 'John Doe',
		'age': 30,
		'address': {'street': '123 Main St', 'zip': '12345'},
		'phones': [('home', '555-1234'), ('work', '555-5678')],
		'active': True,
	}`
	jsonFile := filepath.Join(tempDir, "test.txt")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))

	outputFile := filepath.Join(tempDir, "output.json")

	cmd := devkit("format", "-i", jsonFile, "-o", outputFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))

	formatted, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, `{
    "active": true,
    "address": {
        "street": "123 Main St",
        "zip": "12345"
    },
    "age": 30,
    "name": "John Doe",
    "phones": [
        [
            "home",
            "555-1234"
        ],
        [
            "work",
            "555-5678"
        ]
    ]
}`, string(formatted))
}

// TestCLI_StdinStdout tests the CLI with stdin input and stdout output
func TestCLI_StdinStdout(t *testing.T) {
	cmd := devkit("compress")
	cmd.Stdin = strings.NewReader("{\n  \"name\": \"Jane Smith\",\n  \"age\": 25\n}\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, `{"age":25,"name":"Jane Smith"}`+"\n", stdout.String())
}

// TestCLI_InvalidJSON tests the CLI with input no grammar accepts
func TestCLI_InvalidJSON(t *testing.T) {
	cmd := devkit("validate")
	cmd.Stdin = strings.NewReader(`{"name": "Invalid JSON, "age": 30}`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr.String(), "Unable to parse the input")
	assert.Contains(t, stderr.String(), "Position: line 1, column")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	cmd := devkit("format")
	cmd.Stdin = strings.NewReader("")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with empty input")
	assert.Contains(t, stderr.String(), "Please enter JSON content.")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	output, err := devkit("-v").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "0.1.0")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	output, err := devkit("format", "--help").CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "-i, --input")
	assert.Contains(t, helpOutput, "-o, --output")
	assert.Contains(t, helpOutput, "-c, --copy")
	assert.Contains(t, helpOutput, "-w, --watch")
	assert.Contains(t, helpOutput, "--key-case")
}
