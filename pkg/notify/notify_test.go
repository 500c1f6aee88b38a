package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf)

	n.Notify("Car added to comparison", Success)
	n.Notify("This car is already in comparison", Warning)

	out := buf.String()
	assert.Contains(t, out, "SUCCESS")
	assert.Contains(t, out, "Car added to comparison\n")
	assert.Contains(t, out, "WARNING")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "severity(42)", Severity(42).String())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	assert.Equal(t, Message{}, r.Last())

	r.Notify("a", Info)
	r.Notify("b", Error)

	assert.Len(t, r.Messages, 2)
	assert.Equal(t, Message{Text: "b", Severity: Error}, r.Last())
}
