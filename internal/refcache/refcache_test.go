package refcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFasta(t *testing.T, dir string) string {
	t.Helper()
	faPath := filepath.Join(dir, "ref.fa")
	require.NoError(t, os.WriteFile(faPath, []byte(">chr1\nacgtACGT\nAAAA\n"), 0o644))
	require.NoError(t, os.WriteFile(faPath+".fai", []byte("chr1\t12\t6\t8\t9\n"), 0o644))
	return faPath
}

func TestFetchUppercasesAndCaches(t *testing.T) {
	dir := t.TempDir()
	faPath := writeFasta(t, dir)
	c := New()

	got, err := c.Fetch("chr1", faPath)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGTAAAA", string(got.Seq))

	again, err := c.Fetch("chr1", faPath)
	require.NoError(t, err)
	assert.True(t, got == again, "Fetch should return the same cached pointer")
}

func TestFetchMissingIndexIsFatal(t *testing.T) {
	dir := t.TempDir()
	faPath := filepath.Join(dir, "noidx.fa")
	require.NoError(t, os.WriteFile(faPath, []byte(">chr1\nACGT\n"), 0o644))
	c := New()
	_, err := c.Fetch("chr1", faPath)
	assert.Error(t, err)
}

func TestFetchContigNotPresent(t *testing.T) {
	dir := t.TempDir()
	faPath := writeFasta(t, dir)
	c := New()
	_, err := c.Fetch("chr2", faPath)
	assert.Error(t, err)
}
