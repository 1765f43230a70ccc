package workpool

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type upperFormatter struct{}

func (upperFormatter) Format(text string) (string, error) {
	if text == "bad" {
		return "", errors.New("cannot format")
	}
	return strings.ToUpper(text), nil
}

func Test_Run(t *testing.T) {
	jobs := make([]Job, 0, 6)
	for i := 0; i < 5; i++ {
		jobs = append(jobs, Job{Path: fmt.Sprintf("file%d", i), Text: fmt.Sprintf("text%d", i)})
	}
	jobs = append(jobs, Job{Path: "failing", Text: "bad"})

	results, metrics := Run(3, upperFormatter{}, jobs)

	assert.Len(t, results, len(jobs))
	assert.Equal(t, 5, metrics.Succeeded())
	assert.Equal(t, 1, metrics.Failed())

	byPath := make(map[string]Result, len(results))
	for _, r := range results {
		byPath[r.Path] = r
	}
	assert.Equal(t, "TEXT0", byPath["file0"].Text)
	assert.Error(t, byPath["failing"].Err)
}

func Test_Pool_SubmitAndClose(t *testing.T) {
	p := New(2, upperFormatter{})

	go func() {
		p.Submit(Job{Path: "a", Text: "hello"})
		p.Close()
	}()

	r := <-p.Results()
	assert.Equal(t, "HELLO", r.Text)
}
