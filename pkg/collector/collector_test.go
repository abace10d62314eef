package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/helmcode/questionnaire/pkg/model"
	"github.com/helmcode/questionnaire/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleChoiceAcceptsExactlyTheOptionRange(t *testing.T) {
	for n := 1; n <= 8; n++ {
		options := make([]string, n)
		for i := range options {
			options[i] = fmt.Sprintf("option-%d", i+1)
		}
		q := model.QuestionSpec{ID: "q", Prompt: "Q?", Type: model.SingleChoice, Options: options, Required: true}

		for i := -2; i <= n+2; i++ {
			got, err := Parse(q, fmt.Sprint(i))
			if i >= 1 && i <= n {
				require.NoError(t, err, "n=%d i=%d", n, i)
				assert.Equal(t, model.Text(options[i-1]), got)
				continue
			}
			assert.ErrorIs(t, err, model.ErrRange, "n=%d i=%d", n, i)
		}

		_, err := Parse(q, "two")
		assert.ErrorIs(t, err, model.ErrFormat)
	}
}

func TestParseRatingAcceptsOnlyTheScale(t *testing.T) {
	for _, scale := range []int{1, 5, 10} {
		q := model.QuestionSpec{ID: "r", Prompt: "R?", Type: model.Rating, Scale: scale, Required: true}
		for i := -1; i <= scale+2; i++ {
			got, err := Parse(q, fmt.Sprint(i))
			if i >= 1 && i <= scale {
				require.NoError(t, err)
				assert.Equal(t, model.Number(float64(i)), got)
				continue
			}
			assert.ErrorIs(t, err, model.ErrRange, "scale=%d i=%d", scale, i)
		}
		_, err := Parse(q, "4.5")
		assert.ErrorIs(t, err, model.ErrFormat)
		_, err = Parse(q, "")
		assert.ErrorIs(t, err, model.ErrFormat)
	}
}

func TestParse(t *testing.T) {
	multi := model.QuestionSpec{ID: "m", Prompt: "M?", Type: model.MultiChoice, Options: []string{"a", "b", "c"}, Required: true}
	optionalMulti := multi
	optionalMulti.Required = false
	text := model.QuestionSpec{ID: "t", Prompt: "T?", Type: model.FreeText, Required: true}
	optionalText := text
	optionalText.Required = false
	number := model.QuestionSpec{ID: "n", Prompt: "N?", Type: model.Numeric}
	requiredNumber := number
	requiredNumber.Required = true

	tests := []struct {
		name    string
		q       model.QuestionSpec
		line    string
		want    model.Answer
		wantErr error
	}{
		{name: "multi keeps given order", q: multi, line: "3, 1", want: model.List("c", "a")},
		{name: "multi single", q: multi, line: "2", want: model.List("b")},
		{name: "multi out of range", q: multi, line: "1,4", wantErr: model.ErrRange},
		{name: "multi not numeric", q: multi, line: "1,x", wantErr: model.ErrFormat},
		{name: "multi empty item", q: multi, line: "1,,2", wantErr: model.ErrFormat},
		{name: "multi empty required", q: multi, line: "", wantErr: model.ErrRange},
		{name: "multi empty optional", q: optionalMulti, line: "  ", want: model.List()},
		{name: "text trimmed", q: text, line: "  hello world \t", want: model.Text("hello world")},
		{name: "text empty required", q: text, line: "   ", wantErr: model.ErrRange},
		{name: "text empty optional", q: optionalText, line: "", want: model.Text("")},
		{name: "numeric float", q: number, line: "3.25", want: model.Number(3.25)},
		{name: "numeric negative", q: number, line: "-10", want: model.Number(-10)},
		{name: "numeric empty optional", q: number, line: "", want: model.Null()},
		{name: "numeric empty required", q: requiredNumber, line: "", wantErr: model.ErrFormat},
		{name: "numeric garbage", q: number, line: "12abc", wantErr: model.ErrFormat},
		{name: "numeric nan", q: number, line: "NaN", wantErr: model.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.q, tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %#v", got)
		})
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, "1/3 questions completed (33.3%)", Progress(1, 3))
	assert.Equal(t, "2/3 questions completed (66.7%)", Progress(2, 3))
	assert.Equal(t, "3/3 questions completed (100.0%)", Progress(3, 3))
}

func sampleSet() model.QuestionSet {
	return model.QuestionSet{
		ID:   "sample",
		Name: "Sample",
		Questions: []model.QuestionSpec{
			{ID: "color", Prompt: "Favourite colour?", Type: model.SingleChoice, Options: []string{"Red", "Blue"}, Required: true},
			{ID: "notes", Prompt: "Notes?", Type: model.FreeText},
			{ID: "score", Prompt: "Score?", Type: model.Rating, Scale: 5, Required: true},
		},
	}
}

func TestCollect(t *testing.T) {
	in := strings.NewReader("9\nabc\n2\n\n6\n4\n")
	var out bytes.Buffer

	responses, err := New(in, &out).Collect(context.Background(), sampleSet())
	require.NoError(t, err)

	assert.Equal(t, []string{"color", "score"}, responses.IDs(), "empty optional answers are omitted")
	assert.Equal(t, "Blue", responses.Text("color"))
	score, ok := responses.Number("score")
	require.True(t, ok)
	assert.Equal(t, 4.0, score)

	text := out.String()
	assert.Contains(t, text, "Invalid choice 9")
	assert.Contains(t, text, "Please enter a valid number.")
	assert.Contains(t, text, "Please enter a rating between 1 and 5.")
	assert.Contains(t, text, "Progress: 1/3 questions completed (33.3%)")
	assert.Contains(t, text, "Progress: 2/3 questions completed (66.7%)")
	assert.Contains(t, text, "Progress: 3/3 questions completed (100.0%)")
	assert.Equal(t, 3, strings.Count(text, "Progress:"), "progress is reported once per question")
}

type stubGate struct {
	calls int
}

func (g *stubGate) Check(_ model.QuestionSet, _ model.ResponseMap, id string, answer model.Answer) model.ValidationOutcome {
	if id != "notes" {
		return model.Ok()
	}
	g.calls++
	if answer.String() == "bad" {
		return model.ValidationOutcome{Valid: false, Warnings: []string{"looks odd"}, Errors: []string{"notes cannot be bad"}}
	}
	out := model.Ok()
	out.Warn("accepted with a warning")
	return out
}

func TestCollectGate(t *testing.T) {
	in := strings.NewReader("1\nbad\ngood\n3\n")
	var out bytes.Buffer
	gate := &stubGate{}

	responses, err := New(in, &out, WithGate(gate)).Collect(context.Background(), sampleSet())
	require.NoError(t, err)

	assert.Equal(t, 2, gate.calls)
	assert.Equal(t, "good", responses.Text("notes"))
	assert.Contains(t, out.String(), "notes cannot be bad")
	assert.Contains(t, out.String(), "looks odd")
	assert.Contains(t, out.String(), "accepted with a warning")
}

func TestCollectCancellation(t *testing.T) {
	t.Run("closed input", func(t *testing.T) {
		responses, err := New(strings.NewReader("1\n"), io.Discard).Collect(context.Background(), sampleSet())
		assert.ErrorIs(t, err, model.ErrCancelled)
		assert.Equal(t, 0, responses.Len(), "partial responses are discarded")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(strings.NewReader("1\n\n3\n"), io.Discard).Collect(ctx, sampleSet())
		assert.ErrorIs(t, err, model.ErrCancelled)
		assert.True(t, errors.Is(err, model.ErrCancelled))
	})

	t.Run("blocked prompt", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			_, err := New(pr, io.Discard).Collect(ctx, sampleSet())
			done <- err
		}()
		cancel()
		assert.ErrorIs(t, <-done, model.ErrCancelled)
	})
}

func TestConfirmLeavesRemainingInputForEditor(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	_, err = pw.WriteString("y\n:wq\n")
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	ok, err := New(pr, io.Discard).Confirm(context.Background(), "Edit the query?")
	require.NoError(t, err)
	require.True(t, ok)

	// the editor copies whatever it reads on stdin into the file
	dir := t.TempDir()
	editor := filepath.Join(dir, "editor.sh")
	require.NoError(t, os.WriteFile(editor, []byte("#!/bin/sh\ncat > \"$1\"\n"), 0o755))
	query := filepath.Join(dir, "query.sql")
	require.NoError(t, runner.Edit(context.Background(), editor, query, pr, io.Discard, io.Discard))

	got, err := os.ReadFile(query)
	require.NoError(t, err)
	assert.Equal(t, ":wq\n", string(got))
}

func TestReadLine(t *testing.T) {
	src := strings.NewReader("first\r\nsecond\nlast")
	for _, want := range []string{"first", "second", "last"} {
		line, err := readLine(src)
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := readLine(src)
	assert.ErrorIs(t, err, io.EOF)

	src = strings.NewReader("y\n:wq\n")
	line, err := readLine(src)
	require.NoError(t, err)
	assert.Equal(t, "y", line)
	assert.Equal(t, 4, src.Len(), "nothing is read past the newline")
}

func TestSelectSetAndConfirm(t *testing.T) {
	sets := []model.QuestionSet{sampleSet(), {ID: "other", Name: "Other", Description: "second"}}
	in := strings.NewReader("0\n2\nyes\nnope\n report.json \n")
	var out bytes.Buffer
	c := New(in, &out)
	ctx := context.Background()

	set, err := c.SelectSet(ctx, sets)
	require.NoError(t, err)
	assert.Equal(t, "other", set.ID)
	assert.Contains(t, out.String(), "Select a question set (1-2)")

	ok, err := c.Confirm(ctx, "Save?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Confirm(ctx, "Save?")
	require.NoError(t, err)
	assert.False(t, ok)

	name, err := c.Prompt(ctx, "Filename")
	require.NoError(t, err)
	assert.Equal(t, "report.json", name)

	_, err = c.Confirm(ctx, "Again?")
	assert.ErrorIs(t, err, model.ErrCancelled)
}
