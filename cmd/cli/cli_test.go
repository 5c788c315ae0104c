package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const favoritesBody = `{"data":{"User":{"favourites":{"characters":{"nodes":[
{"id":1,"name":{"full":"Maki Zenin"},"siteUrl":"https://anilist.co/character/1","dateOfBirth":{"year":null,"month":1,"day":20}},
{"id":2,"name":{"full":"Hitori Gotou"},"siteUrl":"https://anilist.co/character/2","dateOfBirth":{"year":null,"month":2,"day":21}}
],"pageInfo":{"hasNextPage":false}}}}}}`

func fakeAniList(t *testing.T, status int, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("ANILIST_ENDPOINT", srv.URL)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGet(t *testing.T) {
	fakeAniList(t, http.StatusOK, favoritesBody)

	out, _, err := run(t, "get", "alice")
	require.NoError(t, err)

	assert.Contains(t, out, "Favorite character birthdays for alice")
	assert.Contains(t, out, "Maki Zenin")
	assert.Contains(t, out, "Hitori Gotou")
}

func TestGet_Horizon(t *testing.T) {
	fakeAniList(t, http.StatusOK, favoritesBody)

	out, _, err := run(t, "get", "alice", "--horizon", "366")
	require.NoError(t, err)

	assert.Contains(t, out, "Upcoming birthdays (next 366 days)")
	future := out[strings.Index(out, "Future birthdays"):]
	assert.Contains(t, future, "none")
}

func TestGet_Errors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		fakeAniList(t, http.StatusNotFound, `{"data":{"User":null}}`)

		_, _, err := run(t, "get", "ghost")
		require.Error(t, err)
		assert.Equal(t, `no AniList user named "ghost"`, err.Error())
	})

	t.Run("upstream down", func(t *testing.T) {
		fakeAniList(t, http.StatusBadGateway, "")

		_, _, err := run(t, "get", "alice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "try again later")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, err := run(t, "get")
		require.Error(t, err)
	})

	t.Run("bad config file", func(t *testing.T) {
		_, _, err := run(t, "get", "alice", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestICS_File(t *testing.T) {
	fakeAniList(t, http.StatusOK, favoritesBody)
	path := filepath.Join(t.TempDir(), "out.ics")

	_, stderr, err := run(t, "ics", "alice", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote 2 birthdays to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(string(data), "BEGIN:VEVENT"))
}

func TestICS_Stdout(t *testing.T) {
	fakeAniList(t, http.StatusOK, favoritesBody)

	out, _, err := run(t, "ics", "alice", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "SUMMARY:Maki Zenin")
}

func TestGet_FixedClock(t *testing.T) {
	fakeAniList(t, http.StatusOK, favoritesBody)

	cmd := newRootCmdWithClock(func() time.Time {
		return time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"get", "alice"})

	require.NoError(t, cmd.Execute())
	out := stdout.String()
	assert.Contains(t, out, "in 5 days")
	assert.Contains(t, out, "2024-01-20")
	assert.Contains(t, out, "in 37 days")
	assert.Less(t, strings.Index(out, "Maki Zenin"), strings.Index(out, "Future birthdays"))
	assert.Greater(t, strings.Index(out, "Hitori Gotou"), strings.Index(out, "Future birthdays"))
}

func TestGet_ReadsClockOnce(t *testing.T) {
	fakeAniList(t, http.StatusOK, favoritesBody)

	// Each read lands one day later, as if the command ran across midnight.
	next := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	reads := 0
	cmd := newRootCmdWithClock(func() time.Time {
		reads++
		cur := next
		next = next.AddDate(0, 0, 1)
		return cur
	})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"get", "alice"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, 1, reads)
	assert.Contains(t, stdout.String(), "Birthdays TODAY (2024-01-20)")
}
