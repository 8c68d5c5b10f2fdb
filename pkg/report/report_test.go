package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := NewReport("draft-x-00.txt")
	r.AddAtLine(Warning, "KEYWORD_MISSPELLED", `"MUST not" is not a keyword`, 12)
	r.Add(Warning, "SECTION_MISSING", "missing Security Considerations section")
	r.Add(Info, "FQDN_NON_EXAMPLE", "example.org is fine")
	return r
}

func TestCounts(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, 2, r.WarningCount())
	assert.Equal(t, 1, r.InfoCount())
	assert.Zero(t, r.ErrorCount())
	assert.True(t, r.IsValid())

	r.Add(Fatal, CheckParseError, "line 3: boom")
	assert.Equal(t, 1, r.FatalCount())
	assert.False(t, r.IsValid())
}

func TestDowngradeAndUpgrade(t *testing.T) {
	r := sampleReport()
	r.Upgrade(map[string]bool{"SECTION_MISSING": true})
	assert.Equal(t, Error, r.Messages[1].Severity)
	assert.False(t, r.IsValid())

	r.Downgrade(nil)
	assert.Equal(t, Info, r.Messages[0].Severity)
	assert.Equal(t, Error, r.Messages[1].Severity, "errors are not downgraded")
}

func TestMessageString(t *testing.T) {
	assert.Equal(t, "ERROR(X): boom [line 4]", Message{Severity: Error, CheckID: "X", Message: "boom", Line: 4}.String())
	assert.Equal(t, "INFO(Y): fine", Message{Severity: Info, CheckID: "Y", Message: "fine"}.String())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	sampleReport().WriteText(&buf, TextOptions{})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "draft-x-00.txt\n"))
	assert.Contains(t, out, `WARNING(KEYWORD_MISSPELLED): "MUST not" is not a keyword [line 12]`)
	assert.Contains(t, out, "Errors: 0, Warnings: 2, Fatal: 0, Info: 1")

	buf.Reset()
	NewReport("clean.txt").WriteText(&buf, TextOptions{})
	assert.Contains(t, buf.String(), "No errors or warnings detected.")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteJSON(&buf))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "draft-x-00.txt", out.Filename)
	assert.True(t, out.Valid)
	assert.Len(t, out.Messages, 3)
	assert.Equal(t, 12, out.Messages[0].Line)
}

func TestWriteJSONAll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONAll(&buf, []*Report{sampleReport(), {Filename: "empty.txt"}}))

	var out []JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.NotNil(t, out[1].Messages)
	assert.Empty(t, out[1].Messages)
}
