package sqllib

import (
	"path/filepath"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsa-sandbox/sandbox-judge/src/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open("sqlite3", filepath.Join(t.TempDir(), "db.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func squareAssignment() *types.Assignment {
	return &types.Assignment{
		ID:             "square",
		MaxTimeMs:      2000,
		MaxMemoryKB:    65536,
		RequiredFiles:  mapset.NewSet("square.c"),
		TestCodes:      map[string]string{"main.c": "int main(void) { return 0; }\n"},
		Makefile:       "all:\n\tgcc -o square main.c square.c\n",
		CompileCommand: "make",
		BinaryName:     "square",
		LightTestCases: []types.TestCase{{Name: "t1", Input: "3\n", Output: "9\n"}},
		HeavyTestCases: []types.TestCase{{Name: "h1", Input: "100000\n", Output: "10000000000\n"}},
	}
}

func TestSaveAndFindAssignment(t *testing.T) {
	db := openTestDB(t)
	want := squareAssignment()
	require.NoError(t, db.SaveAssignment(want))

	got, err := db.FindAssignment("square")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.MaxTimeMs, got.MaxTimeMs)
	assert.Equal(t, want.MaxMemoryKB, got.MaxMemoryKB)
	assert.True(t, want.RequiredFiles.Equal(got.RequiredFiles))
	assert.Equal(t, want.TestCodes, got.TestCodes)
	assert.Equal(t, want.Makefile, got.Makefile)
	assert.Equal(t, want.CompileCommand, got.CompileCommand)
	assert.Equal(t, want.BinaryName, got.BinaryName)
	assert.Equal(t, want.LightTestCases, got.LightTestCases)
	assert.Equal(t, want.HeavyTestCases, got.HeavyTestCases)
}

func TestSaveAssignmentReplaces(t *testing.T) {
	db := openTestDB(t)
	a := squareAssignment()
	require.NoError(t, db.SaveAssignment(a))

	a.MaxTimeMs = 500
	a.HeavyTestCases = nil
	require.NoError(t, db.SaveAssignment(a))

	got, err := db.FindAssignment("square")
	require.NoError(t, err)
	assert.Equal(t, 500, got.MaxTimeMs)
	assert.Empty(t, got.HeavyTestCases)
}

func TestFindAssignmentNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.FindAssignment("missing")
	assert.Equal(t, ErrAssignmentNotFound, err)
}

func TestFromRowCorrupt(t *testing.T) {
	_, err := fromRow(types.AssignmentGORM{ID: "x", LightTestCases: "{not json"})
	assert.Error(t, err)
}
