package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/campus/cli/internal/config"
	"github.com/gravitrone/campus/cli/internal/record"
)

func TestStatsCmdPrintsTotals(t *testing.T) {
	startAPI(t)

	out, _, err := execute(t, "stats")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Events", "2"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Students", "0"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Registrations", "42"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Avg", "feedback", "4.3"}, strings.Fields(lines[3]))
}

func TestStatsCmdReportsFailure(t *testing.T) {
	stub, _ := startAPI(t)
	stub.failOn["GET /reports/feedback"] = 500

	_, _, err := execute(t, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load stats: feedback")
}

func TestPingCmd(t *testing.T) {
	_, url := startAPI(t)

	out, _, err := execute(t, "ping")
	require.NoError(t, err)
	assert.Equal(t, url+": Welcome to Campus Event Manager!\n", out)
}

func TestPingCmdUnreachable(t *testing.T) {
	startAPI(t)

	_, _, err := execute(t, "--base-url", "http://127.0.0.1:1", "ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API unreachable at http://127.0.0.1:1")
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "campus test\n", out)
}

func TestConfigInitWritesDefaultsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, _, err := execute(t, "--config", path, "--base-url", "http://campus.local:9000", "config", "init")
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://campus.local:9000", cfg.BaseURL)

	_, _, err = execute(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().BaseURL, cfg.BaseURL)
}

func TestConfigInitRejectsBadBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := execute(t, "--config", path, "--base-url", "campus.local", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an http(s) URL")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigShowAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placeholder: n/a\n"), 0o600))
	t.Setenv("CAMPUS_LOG_LEVEL", "DEBUG")

	out, _, err := execute(t, "--config", path, "--base-url", "https://api.campus.edu", "config", "show")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "+path+"\n"))
	assert.Contains(t, out, "base_url: https://api.campus.edu")
	assert.Contains(t, out, "placeholder: n/a")
	assert.Contains(t, out, "log_level: DEBUG")
}

func TestLoadEnvRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: ftp://nope\n"), 0o600))

	_, _, err := execute(t, "--config", path, "events", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestConfigDefaultsReachSubmittedRecords(t *testing.T) {
	stub, url := startAPI(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "base_url: " + url + "\ndefaults:\n  events:\n    type: General\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	_, _, err := execute(t, "--config", path, "events", "create", "-f", "name=Expo", "-f", "date=2099-03-03")
	require.NoError(t, err)

	writes := stub.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "General", writes[0].Body["type"])

	_, _, err = execute(t, "--config", path, "events", "create", "-f", "name=Gala", "-f", "date=2099-03-03", "-f", "type=Formal")
	require.NoError(t, err)
	writes = stub.writes()
	require.Len(t, writes, 2)
	assert.Equal(t, "Formal", writes[1].Body["type"])
}

func TestConfigDefaultsSatisfyRequiredFeedbackFields(t *testing.T) {
	stub, url := startAPI(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "base_url: " + url + "\ndefaults:\n  feedback:\n    student_id: 1\n    rating: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	out, _, err := execute(t, "--config", path, "feedback", "create", "-f", "event_id=2")
	require.NoError(t, err)
	assert.Equal(t, "Feedback created\n", out)

	writes := stub.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, map[string]any{"student_id": float64(1), "event_id": float64(2), "rating": float64(5)}, writes[0].Body)
}

func TestTextRendererCards(t *testing.T) {
	var out bytes.Buffer
	r := textRenderer{out: &out, res: testEventResource()}
	r.Render([]record.Record{
		{"id": int64(3), "name": "<b>Poetry</b> Slam", "date": "2099-04-02", "description": "line one\nline two"},
		{"name": "No ID"},
	}, noHandlers)

	text := out.String()
	assert.Contains(t, text, "  #3  Poetry Slam\n")
	assert.Contains(t, text, "Date:")
	assert.Contains(t, text, "Apr 2, 2099")
	assert.Contains(t, text, "Location:     -\n")
	assert.Contains(t, text, "line one\n"+strings.Repeat(" ", 4+len("Description:")+2)+"line two")
	assert.Contains(t, text, "\n  No ID\n")
	assert.NotContains(t, text, "<b>")
}

func TestApplyFieldFlagsKeepsEqualsInValue(t *testing.T) {
	form := record.NewInputs()
	spec := testEventResource().Fields
	require.NoError(t, applyFieldFlags(form, spec, []string{"description=a=b", " name =Gala"}))
	assert.Equal(t, "a=b", form.Value("description"))
	assert.Equal(t, "Gala", form.Value("name"))
}
