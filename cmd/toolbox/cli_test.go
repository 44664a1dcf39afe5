package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbox/config"
	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
)

// resetFlags 命令对象是包级变量，每次执行前把 flag 恢复成默认值
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseNumbers(t *testing.T) {
	got, err := parseNumbers(strings.NewReader("1, 2 3\n\n4.5,-1e2\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4.5, -100}, got)

	_, err = parseNumbers(strings.NewReader("1 two"))
	assert.Equal(t, errCode.INVALID_VALUE, errorx.Code(err))
}

func TestHistFromStdin(t *testing.T) {
	out, err := run(t, "1 2 3 4 5 6 7 8 9 10", "hist", "--bins", "2", "--density", "0.25", "--places", "1")
	require.NoError(t, err)
	assert.Equal(t, "\n[  1.0,   5.5) ||\n[  5.5,  10.0] ||\n", out)
}

func TestHistFromFilesWithSummary(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("1,2,3,4,5\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("6\n7\n8\n9\n10\n"), 0o644))

	out, err := run(t, "", "hist", "-b", "2", "--density", "0.25", "--places", "1", "--summary", a, b)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\n[  1.0,   5.5) ||\n[  5.5,  10.0] ||\n"))
	assert.Contains(t, out, "n=10 min=1 max=10 mean=5.5")
}

func TestHistErrors(t *testing.T) {
	out, err := run(t, "", "hist")
	assert.Equal(t, errCode.INVALID_VALUE, errorx.Code(err))
	// 错误只由 main 输出一次
	assert.Empty(t, out)

	_, err = run(t, "3 3 3", "hist")
	assert.Equal(t, errCode.INVALID_VALUE, errorx.Code(err))

	out, err = run(t, "3 3 3", "hist", "--degenerate", "single_bin", "--density", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "] ||")

	_, err = run(t, "1 2", "hist", "--degenerate", "maybe")
	assert.Equal(t, errCode.INVALID_VALUE, errorx.Code(err))
}

func TestHistUsesConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("histogram:\n  bins: 2\n  density_per_symbol: 0.25\n  label_places: 1\n"), 0o644))
	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	// 恢复为默认配置
	t.Cleanup(func() { require.NoError(t, config.Init(empty)) })

	out, err := run(t, "1 2 3 4 5 6 7 8 9 10", "hist", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "\n[  1.0,   5.5) ||\n[  5.5,  10.0] ||\n", out)
}

func TestClean(t *testing.T) {
	out, err := run(t, "", "clean", "--op", "to_lowercase", "HELLO", "World")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)

	out, err = run(t, "A1b2\nC3\n", "clean", "--op", "remove_numbers", "--op", "to_lowercase")
	require.NoError(t, err)
	assert.Equal(t, "ab\nc\n", out)

	out, err = run(t, "", "clean", "--op", "remove_specific_words", "--words", "is", "--word-boundaries", "this is it")
	require.NoError(t, err)
	assert.Equal(t, "this  it\n", out)

	_, err = run(t, "", "clean", "x")
	assert.Equal(t, errCode.INVALID_VALUE, errorx.Code(err))

	_, err = run(t, "", "clean", "--pipeline", "missing", "x")
	assert.Equal(t, errCode.NOT_FOUND, errorx.Code(err))

	out, err = run(t, "", "clean", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "join_single_space_separated_letters_together\n")
}

func TestClassify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `
- pattern: '\bmen'
  scores: {mens: 10}
- pattern: '\bgirls?\b'
  scores: {ladies: 5, childrens: 5}
- pattern: '\bbikini\b'
  scores: {ladies: 10}
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	out, err := run(t, "girls bikini top\nmens shirt\n", "classify", "--rules", path)
	require.NoError(t, err)
	assert.Equal(t, "girls bikini top\tladies\nmens shirt\tmens\n", out)

	out, err = run(t, "", "classify", "--rules", path, "--ties", "all", "girls")
	require.NoError(t, err)
	assert.Equal(t, "girls\tchildrens,ladies\n", out)

	_, err = run(t, "", "classify", "x")
	assert.Equal(t, errCode.EMPTY_VALUE, errorx.Code(err))
}

func TestMatch(t *testing.T) {
	out, err := run(t, "", "match", "phrase", "joe is president", "who says joe is great")
	require.NoError(t, err)
	assert.Equal(t, "joe is\n", out)

	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.txt")
	lookup := filepath.Join(dir, "lookup.txt")
	require.NoError(t, os.WriteFile(ref, []byte("a b c x d e y f g h i"), 0o644))
	require.NoError(t, os.WriteFile(lookup, []byte("f g h i q a b c r d e"), 0o644))
	out, err = run(t, "", "match", "runs", "-n", "2", ref, lookup)
	require.NoError(t, err)
	assert.Equal(t, "f g h i\na b c\n", out)
}

func TestView(t *testing.T) {
	out, err := run(t, "b:\n  c: 1\na: x\n", "view", "--tab", "2")
	require.NoError(t, err)
	assert.Equal(t, "|b|\n--|c| 1\n|a| x\n", out)
}

func TestBayes(t *testing.T) {
	out, err := run(t, "", "bayes", "--a", "1", "--b", "1", "--successes", "3", "--trials", "4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "posterior Beta(4, 2) mean=0.666667 95% interval=["), out)

	_, err = run(t, "", "bayes", "--successes", "5", "--trials", "4")
	assert.Equal(t, errCode.INVALID_VALUE, errorx.Code(err))
}

func TestHistTinyDensity(t *testing.T) {
	out, err := run(t, "1 2", "hist", "--density", "1e-20")
	assert.Equal(t, errCode.INVALID_VALUE, errorx.Code(err))
	assert.Empty(t, out)
}
