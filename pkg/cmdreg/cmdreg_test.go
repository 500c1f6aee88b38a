package cmdreg

import (
	"bytes"
	"context"
	"testing"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	r := New(WithProgramName("carlot"))

	var got []string
	r.RegisterFunc("compare", func(_ context.Context, args []string) {
		got = args
	})

	require.NoError(t, r.dispatch(context.Background(), []string{"carlot", "compare", "add", "12"}))
	assert.Equal(t, []string{"compare", "add", "12"}, got)

	assert.Error(t, r.dispatch(context.Background(), []string{"carlot"}))
	assert.Error(t, r.dispatch(context.Background(), []string{"carlot", "nope"}))
}

func TestExecUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	code := -1
	r := New(WithProgramName("carlot"))
	r.stderr = &stderr
	r.exit = func(c int) { code = c }
	r.RegisterFunc("login", func(context.Context, []string) {})

	r.Exec(context.Background(), []string{"carlot", "nope"})

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), `unknown command "nope"`)
	assert.Contains(t, stderr.String(), "  login\n")
}

func TestRegisterTwicePanics(t *testing.T) {
	r := New()
	r.RegisterFunc("login", func(context.Context, []string) {})
	assert.Panics(t, func() {
		r.RegisterFunc("login", func(context.Context, []string) {})
	})
}

func TestCompletionTree(t *testing.T) {
	r := New()
	sub := &complete.Command{Sub: map[string]*complete.Command{"add": {Args: predict.Nothing}}}
	r.RegisterFunc("compare", func(context.Context, []string) {}, WithCompletion(sub))
	r.RegisterFunc("logout", func(context.Context, []string) {})

	root := r.completion()

	assert.Same(t, sub, root.Sub["compare"])
	assert.NotNil(t, root.Sub["logout"])
	assert.Equal(t, []string{"compare", "logout"}, r.Names())
}
