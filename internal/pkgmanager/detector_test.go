package pkgmanager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLockFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
}

func Test_Detect_ByLockFile(t *testing.T) {
	tests := []struct {
		lockFile string
		want     Kind
	}{
		{"package-lock.json", KindNPM},
		{"yarn.lock", KindYarn},
		{"pnpm-lock.yaml", KindPNPM},
		{"bun.lockb", KindBun},
		{"bun.lock", KindBun},
	}

	for _, tt := range tests {
		t.Run(tt.lockFile, func(t *testing.T) {
			dir := t.TempDir()
			writeLockFile(t, dir, tt.lockFile)

			assert.Equal(t, tt.want, Detect(dir).Kind)
		})
	}
}

func Test_Detect_WalksUpward(t *testing.T) {
	root := t.TempDir()
	writeLockFile(t, root, "pnpm-lock.yaml")
	nested := filepath.Join(root, "packages", "app", "src")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, KindPNPM, Detect(nested).Kind)
}

func Test_Detect_PNPMOutranksNPM(t *testing.T) {
	dir := t.TempDir()
	writeLockFile(t, dir, "package-lock.json")
	writeLockFile(t, dir, "pnpm-lock.yaml")

	assert.Equal(t, KindPNPM, Detect(dir).Kind)
}

func Test_Detect_NoLockFile(t *testing.T) {
	info := Detect(t.TempDir())
	assert.Equal(t, KindUnknown, info.Kind)
}

func Test_Detect_BinDirHint(t *testing.T) {
	root := t.TempDir()
	writeLockFile(t, root, "yarn.lock")
	bin := filepath.Join(root, "node_modules", ".bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))

	info := Detect(filepath.Join(root))
	assert.Equal(t, KindYarn, info.Kind)
	assert.Equal(t, bin, info.BinDirHint)
}

func Test_Detect_NearestBinHintWins(t *testing.T) {
	root := t.TempDir()
	writeLockFile(t, root, "yarn.lock")
	nested := filepath.Join(root, "packages", "app")
	nestedBin := filepath.Join(nested, "node_modules", ".bin")
	require.NoError(t, os.MkdirAll(nestedBin, 0o755))

	info := Detect(nested)
	assert.Equal(t, KindYarn, info.Kind)
	assert.Equal(t, nestedBin, info.BinDirHint)
}
