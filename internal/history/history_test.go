package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecord_AssignsScanIDAndTimestamp(t *testing.T) {
	l := newTestLedger(t)

	s := &Scan{Path: "/p/a.py", Root: "/p", CachePath: "/p/assets/.visualizer/meta_a_py.json", Kind: "python"}
	id, err := l.Record(s)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.NotEmpty(t, s.ScanID)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestRecord_ScanIDsAreUnique(t *testing.T) {
	l := newTestLedger(t)

	a := &Scan{Path: "/p/a.m", Root: "/p", CachePath: "x", Kind: "matlab"}
	b := &Scan{Path: "/p/a.m", Root: "/p", CachePath: "x", Kind: "matlab"}
	_, err := l.Record(a)
	require.NoError(t, err)
	_, err = l.Record(b)
	require.NoError(t, err)
	assert.NotEqual(t, a.ScanID, b.ScanID)
}

func TestRecent_NewestFirst(t *testing.T) {
	l := newTestLedger(t)

	for _, p := range []string{"/p/one.py", "/p/two.py", "/p/three.py"} {
		_, err := l.Record(&Scan{Path: p, Root: "/p", CachePath: "x", Kind: "python", Functions: 2})
		require.NoError(t, err)
	}

	scans, err := l.Recent(2)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "/p/three.py", scans[0].Path)
	assert.Equal(t, "/p/two.py", scans[1].Path)
	assert.Equal(t, 2, scans[0].Functions)
}

func TestByPath_FiltersAndOrders(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Record(&Scan{Path: "/p/a.py", Root: "/p", CachePath: "x", Kind: "python"})
	require.NoError(t, err)
	_, err = l.Record(&Scan{Path: "/p/b.py", Root: "/p", CachePath: "x", Kind: "python"})
	require.NoError(t, err)
	second := &Scan{Path: "/p/a.py", Root: "/p", CachePath: "x", Kind: "python", Classes: 1}
	_, err = l.Record(second)
	require.NoError(t, err)

	scans, err := l.ByPath("/p/a.py")
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, second.ScanID, scans[0].ScanID)
	assert.Equal(t, 1, scans[0].Classes)
}
