package pack

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naari3/rkpack/internal/dbaccess"
	"github.com/naari3/rkpack/internal/document"
	"github.com/naari3/rkpack/internal/progress"
)

const testSchema = `
CREATE TABLE djmdPlaylist (ID TEXT PRIMARY KEY, Name TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdSongPlaylist (ID TEXT PRIMARY KEY, PlaylistID TEXT, ContentID TEXT, TrackNo INTEGER, rb_local_deleted INTEGER);
CREATE TABLE djmdContent (ID TEXT PRIMARY KEY, Title TEXT, ArtistID TEXT, OrgArtistID TEXT, RemixerID TEXT, ComposerID TEXT, AlbumID TEXT, GenreID TEXT, KeyID TEXT, LabelID TEXT, ColorID TEXT, FolderPath TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdArtist (ID TEXT PRIMARY KEY, Name TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdAlbum (ID TEXT PRIMARY KEY, Name TEXT, AlbumArtistID TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdGenre (ID TEXT PRIMARY KEY, Name TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdKey (ID TEXT PRIMARY KEY, ScaleName TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdLabel (ID TEXT PRIMARY KEY, Name TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdColor (ID TEXT PRIMARY KEY, ColorCode INTEGER, rb_local_deleted INTEGER);
CREATE TABLE djmdMyTag (ID TEXT PRIMARY KEY, Name TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdHotCueBanklist (ID TEXT PRIMARY KEY, Name TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdCue (ID TEXT PRIMARY KEY, ContentID TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdActiveCensor (ID TEXT PRIMARY KEY, ContentID TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdMixerParam (ID TEXT PRIMARY KEY, ContentID TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdSongMyTag (ID TEXT PRIMARY KEY, ContentID TEXT, MyTagID TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdSongTagList (ID TEXT PRIMARY KEY, ContentID TEXT, rb_local_deleted INTEGER);
CREATE TABLE djmdSongHotCueBanklist (ID TEXT PRIMARY KEY, ContentID TEXT, HotCueBanklistID TEXT, rb_local_deleted INTEGER);
CREATE TABLE hotCueBanklistCue (ID TEXT PRIMARY KEY, HotCueBanklistID TEXT, rb_local_deleted INTEGER);
CREATE TABLE contentCue (ID TEXT PRIMARY KEY, ContentID TEXT, rb_local_deleted INTEGER);
CREATE TABLE contentActiveCensor (ID TEXT PRIMARY KEY, ContentID TEXT, rb_local_deleted INTEGER);
CREATE TABLE contentFile (ID TEXT PRIMARY KEY, ContentID TEXT, Path TEXT, Hash TEXT, rb_local_path TEXT, rb_local_deleted INTEGER);
`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbaccess.Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func TestFindPlaylistNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := findPlaylist(context.Background(), db, "Missing", progress.Nop())
	require.Error(t, err)
}

func TestFindPlaylistAmbiguous(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO djmdPlaylist (ID, Name, rb_local_deleted) VALUES ('1','Dup',0),('2','Dup',0)`)
	require.NoError(t, err)

	_, err = findPlaylist(context.Background(), db, "Dup", progress.Nop())
	require.Error(t, err)
}

func TestRunProducesArchiveWithManifestAndAudio(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	musicDir := t.TempDir()
	trackPath := filepath.Join(musicDir, "track.mp3")
	require.NoError(t, os.WriteFile(trackPath, []byte("audio-bytes"), 0o644))

	stmts := []string{
		`INSERT INTO djmdPlaylist (ID, Name, rb_local_deleted) VALUES ('10','My Set',0)`,
		`INSERT INTO djmdArtist (ID, Name, rb_local_deleted) VALUES ('40','Artist',0)`,
		`INSERT INTO djmdAlbum (ID, Name, AlbumArtistID, rb_local_deleted) VALUES ('50','Album','40',0)`,
		`INSERT INTO djmdGenre (ID, Name, rb_local_deleted) VALUES ('60','House',0)`,
		`INSERT INTO djmdKey (ID, ScaleName, rb_local_deleted) VALUES ('70','Am',0)`,
		`INSERT INTO djmdLabel (ID, Name, rb_local_deleted) VALUES ('80','Label',0)`,
		`INSERT INTO djmdColor (ID, ColorCode, rb_local_deleted) VALUES ('90',5,0)`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	_, err := db.Exec(`INSERT INTO djmdContent (ID, Title, ArtistID, AlbumID, GenreID, KeyID, LabelID, ColorID, FolderPath, rb_local_deleted)
		VALUES ('30','Track','40','50','60','70','80','90', ?, 0)`, trackPath)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO djmdSongPlaylist (ID, PlaylistID, ContentID, TrackNo, rb_local_deleted) VALUES ('1','10','30',1,0)`)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "set.rkp")
	collector := &progress.Collector{}
	stats, err := Run(ctx, db, Options{PlaylistName: "My Set", OutputPath: out}, collector)
	require.NoError(t, err)
	require.Equal(t, 1, stats.AudioCopied)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	var manifestEntry *zip.File
	var audioEntry *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "pack.json":
			manifestEntry = f
		case "files/track.mp3":
			audioEntry = f
		}
	}
	require.NotNil(t, manifestEntry, "pack.json must be present")
	require.NotNil(t, audioEntry, "files/track.mp3 must be present")

	rc, err := manifestEntry.Open()
	require.NoError(t, err)
	defer rc.Close()

	var manifest document.Manifest
	require.NoError(t, json.NewDecoder(rc).Decode(&manifest))
	require.Equal(t, document.CurrentVersion, manifest.Version)
	require.Len(t, manifest.Tables["djmdContent"], 1)
	require.Len(t, manifest.Tables["djmdArtist"], 1)
	require.Len(t, manifest.AudioFiles, 1)
	require.Equal(t, "track.mp3", manifest.AudioFiles[0].RelativePath)
}

func TestPackAudioFilesSkipsMissingFile(t *testing.T) {
	contents := []document.Row{
		{"ID": document.TextValue("1"), "FolderPath": document.TextValue("/nonexistent/path/x.mp3")},
	}
	files, stats := packAudioFiles(nil, contents, false, progress.Nop())
	require.Nil(t, files)
	require.Equal(t, 1, stats.skipped)
}
