package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.nfu", "exit\n")

	cfg, err := loadFileConfig("", script)
	require.NoError(t, err)
	require.Equal(t, defaultFileConfig(), cfg)
}

func TestLoadFileConfigBesideScript(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.nfu", "exit\n")
	writeFile(t, dir, configFileName, `
[display]
mode = "tui"

[script]
encoding = "shift_jis"

[log]
level = "debug"
file = "nefu.log"
`)

	cfg, err := loadFileConfig("", script)
	require.NoError(t, err)
	require.Equal(t, "tui", cfg.Display.Mode)
	require.Equal(t, "> ", cfg.Display.Cursor)
	require.Equal(t, "shift_jis", cfg.Script.Encoding)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "nefu.log", cfg.Log.File)
}

func TestLoadFileConfigErrors(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.nfu", "exit\n")

	_, err := loadFileConfig(filepath.Join(dir, "missing.toml"), script)
	require.Error(t, err)

	bad := writeFile(t, dir, "bad.toml", "[display]\nmode = \"fancy\"\n")
	_, err = loadFileConfig(bad, script)
	require.ErrorContains(t, err, "display.mode")

	broken := writeFile(t, dir, "broken.toml", "[display\n")
	_, err = loadFileConfig(broken, script)
	require.Error(t, err)
}

func TestDecodeScript(t *testing.T) {
	src := "dsp \"こんにちは\"\n"
	sjis, err := japanese.ShiftJIS.NewEncoder().String(src)
	require.NoError(t, err)
	require.NotEqual(t, src, sjis)

	got, err := decodeScript([]byte(sjis), "shift_jis")
	require.NoError(t, err)
	require.Equal(t, src, got)

	got, err = decodeScript([]byte(src), "UTF-8")
	require.NoError(t, err)
	require.Equal(t, src, got)

	_, err = decodeScript([]byte(src), "klingon")
	require.ErrorContains(t, err, "unknown encoding")
}

func TestBuildVM(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.nfu", `getinput {
  !getinput!>!vars/name!
}
dsp !vars/greeting! ", " !vars/name!
`)
	vm, err := buildVM(appConfig{
		script:   script,
		encoding: "utf-8",
		vars:     map[string]string{"greeting": "Hello"},
		inputs:   []string{"Bob"},
	})
	require.NoError(t, err)

	out, err := vm.Run()
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Hello, Bob", out[0].Text)
}

func TestBuildVMMissingScript(t *testing.T) {
	_, err := buildVM(appConfig{script: filepath.Join(t.TempDir(), "none.nfu")})
	require.True(t, errors.Is(err, errSetup))
}
