package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type wrapped struct {
	msg   string
	cause error
}

func (e *wrapped) Error() string { return e.msg }
func (e *wrapped) Unwrap() error { return e.cause }

func Test_WrapError_chainsCauses(t *testing.T) {
	cause := errors.New("orphaned terminal FOO")
	err := &wrapped{msg: "spec gen: mapping error", cause: cause}

	out := WrapError(err, 40)

	assert.Contains(t, out, "spec gen: mapping error")
	assert.Contains(t, out, "orphaned terminal FOO")
}

func Test_WrapError_wrapsLongLines(t *testing.T) {
	err := errors.New(strings.Repeat("word ", 30))

	out := WrapError(err, 20)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
}

func Test_ReportError(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, errors.New("boom"), 0)
	assert.Contains(t, buf.String(), "boom")
}

func Test_Help_defaultsWidth(t *testing.T) {
	out := Help("usage text", 0)
	assert.Contains(t, out, "usage text")
}
