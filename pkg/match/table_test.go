package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/match"
)

func buildTable(t *testing.T, req match.Request) *match.Table {
	t.Helper()

	prober := fsProber(map[string]match.EntryType{
		"/d/a.png": match.EntryFile,
		"/d/b.png": match.EntryFile,
	})
	cats := []*config.Category{
		{Name: "Container", Type: "c", Actions: []*config.Action{action("Open Terminal Here")}},
		{Name: "Any", Type: "a", Actions: []*config.Action{action("Copy Paths"), action("Compress")}},
		{Name: "Images", Ext: ".png", Actions: []*config.Action{action("Convert to JPEG")}},
	}

	return match.NewMatcher(match.WithProber(prober)).Match(t.Context(), req, cats)
}

func TestTable_Resolve(t *testing.T) {
	t.Parallel()

	table := buildTable(t, match.Request{
		Context: match.ContextItems,
		Target:  "/d",
		Items:   []string{"/d/a.png"},
	})
	require.Equal(t, 3, table.Len())

	e, err := table.Resolve(2)
	require.NoError(t, err)
	assert.Equal(t, "Convert to JPEG", e.Title())
	assert.Equal(t, "Images", e.Category.Name)

	for _, h := range []match.Handle{-1, 3, 100} {
		_, err := table.Resolve(h)
		require.ErrorIs(t, err, match.ErrUnknownHandle)
	}
}

func TestTable_Find(t *testing.T) {
	t.Parallel()

	table := buildTable(t, match.Request{
		Context: match.ContextItems,
		Target:  "/d",
		Items:   []string{"/d/a.png", "/d/b.png"},
	})

	tcs := map[string]struct {
		query   string
		want    string
		wantErr error
	}{
		"exact": {
			query: "compress",
			want:  "Compress",
		},
		"fuzzy": {
			query: "cnvjpg",
			want:  "Convert to JPEG",
		},
		"no match": {
			query:   "zzz",
			wantErr: match.ErrNoMatch,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			e, err := table.Find(tc.query)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, e.Title())
		})
	}
}

func TestTable_Inputs(t *testing.T) {
	t.Parallel()

	items := buildTable(t, match.Request{
		Context: match.ContextItems,
		Target:  "/d",
		Items:   []string{"/d/a.png", "/d/b.png"},
	})
	assert.Equal(t, []string{"/d/a.png", "/d/b.png"}, items.Inputs())

	container := buildTable(t, match.Request{Context: match.ContextContainer, Target: "/d"})
	assert.Equal(t, []string{"/d"}, container.Inputs())
	assert.Equal(t, []string{"Open Terminal Here"}, container.Titles())
}
