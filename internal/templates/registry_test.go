package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpages/internal/classify"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
)

func TestBuiltins_AllNamesPresent(t *testing.T) {
	for _, tag := range classify.Tags {
		body, err := Builtin(string(tag))
		require.NoError(t, err, tag)
		assert.Contains(t, body, Token(Title), tag)
		assert.Contains(t, body, Token(Content), tag)
		assert.Empty(t, Unknown(body, append([]string{BaseCSS}, PagePlaceholders...)), tag)
	}

	index, err := Builtin(IndexName)
	require.NoError(t, err)
	assert.Contains(t, index, Token(Navigation))
	assert.Empty(t, Unknown(index, append([]string{BaseCSS}, IndexPlaceholders...)))

	_, err = Builtin("nope")
	require.Error(t, err)
}

func TestLoad_SynthesizesMissingTemplates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "doc-templates")

	reg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	require.Len(t, reg.Synthesized(), len(classify.Tags)+1)
	for _, tag := range classify.Tags {
		path := filepath.Join(dir, string(tag)+FileExtension)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, reg.Template(tag), string(data))
		assert.NotContains(t, string(data), Token(BaseCSS))
	}
	assert.FileExists(t, filepath.Join(dir, "index.html"))
}

func TestLoad_NeverOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	custom := "<html>{{TITLE}} custom {{CONTENT}}</html>"
	path := filepath.Join(dir, "playbook.html")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	reg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, custom, reg.Template(classify.TagPlaybook))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
	assert.NotContains(t, reg.Synthesized(), path)

	// A second load writes nothing new.
	again, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Empty(t, again.Synthesized())
}

func TestLoad_UsesStyleSourceCSS(t *testing.T) {
	dir := t.TempDir()
	styled := filepath.Join(dir, "styled.html")
	require.NoError(t, os.WriteFile(styled, []byte("<html><head><style>.brand { color: teal; }</style></head></html>"), 0o600))

	reg, err := Load(LoadOptions{StyleSource: styled})
	require.NoError(t, err)

	assert.Contains(t, reg.Template(classify.TagRules), ".brand { color: teal; }")
	assert.Contains(t, reg.Index(), ".brand { color: teal; }")
	assert.Empty(t, reg.Synthesized())
}

func TestLoad_MissingStyleSourceFallsBackToBuiltinCSS(t *testing.T) {
	reg, err := Load(LoadOptions{StyleSource: filepath.Join(t.TempDir(), "absent.html")})
	require.NoError(t, err)

	assert.Contains(t, reg.Template(classify.TagStandard), ".container")
}

func TestLoad_TemplateDirIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "templates")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := Load(LoadOptions{Dir: file})

	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestRegistry_FallsBackToStandard(t *testing.T) {
	reg := New(map[classify.Tag]string{
		classify.TagStandard:  "standard {{CONTENT}}",
		classify.TagFramework: "framework {{CONTENT}}",
	}, "index")

	assert.Equal(t, "framework {{CONTENT}}", reg.Template(classify.TagFramework))
	assert.Equal(t, "standard {{CONTENT}}", reg.Template(classify.TagPlaybook))
	assert.Equal(t, "standard {{CONTENT}}", reg.Template(classify.Tag("unknown")))
	assert.Equal(t, "index", reg.Index())
}

func TestNew_FillsMissingStandardAndIndex(t *testing.T) {
	reg := New(nil, "")

	assert.Contains(t, reg.Template(classify.TagRules), Token(Content))
	assert.Contains(t, reg.Index(), Token(Navigation))
}

func TestWriteIfAbsent(t *testing.T) {
	dir := t.TempDir()

	path, err := writeIfAbsent(dir, "a.html", "one")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.html"), path)

	_, err = writeIfAbsent(dir, "a.html", "two")
	require.ErrorIs(t, err, ErrFileExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	_, err = writeIfAbsent(dir, "../escape.html", "x")
	require.Error(t, err)
}
