package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/questionnaire/pkg/model"
)

func TestRun(t *testing.T) {
	r := New("echo analysing", nil)
	require.True(t, r.Configured())

	out, err := r.Run(context.Background(), "query.sql")
	require.NoError(t, err)
	assert.Equal(t, "analysing query.sql\n", out)
}

func TestRunNotConfigured(t *testing.T) {
	_, err := New("   ", nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestRunFailure(t *testing.T) {
	_, err := New("false", nil).Run(context.Background())
	var collab *model.CollaboratorError
	require.ErrorAs(t, err, &collab)
	assert.Equal(t, "process", collab.Collaborator)
	assert.Equal(t, "false", collab.Op)
}

func TestRunMissingBinary(t *testing.T) {
	_, err := New("definitely-not-a-real-binary-xyz", nil).Run(context.Background())
	var collab *model.CollaboratorError
	assert.ErrorAs(t, err, &collab)
}

func TestEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "code -w", Editor("code -w"))
	assert.Equal(t, "nano", Editor(""))

	t.Setenv("VISUAL", "emacs")
	assert.Equal(t, "emacs", Editor(""))

	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", Editor(""))
}

func TestEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(path, []byte("select 1"), 0o644))

	var out bytes.Buffer
	require.NoError(t, Edit(context.Background(), "echo", path, nil, &out, &out))
	assert.Equal(t, path+"\n", out.String())

	err := Edit(context.Background(), "false", path, nil, &out, &out)
	var collab *model.CollaboratorError
	assert.ErrorAs(t, err, &collab)
}
