// Package pack is the Extractor: it traverses a playlist's relational and
// media closure in the source Library DB and assembles a .rkp archive
// from it.
package pack

import (
	"context"
	"os"
	"path/filepath"

	"github.com/naari3/rkpack/internal/archive"
	"github.com/naari3/rkpack/internal/catalog"
	"github.com/naari3/rkpack/internal/dbaccess"
	"github.com/naari3/rkpack/internal/document"
	"github.com/naari3/rkpack/internal/pathnorm"
	"github.com/naari3/rkpack/internal/progress"
	"github.com/naari3/rkpack/internal/rkerr"
)

// Options configures a single pack run.
type Options struct {
	PlaylistName  string
	OutputPath    string
	KeepStructure bool
}

// Stats summarizes a completed pack run's media copy outcomes.
type Stats struct {
	AudioCopied, AudioSkipped, AudioFailed                   int
	ContentDataCopied, ContentDataSkipped, ContentDataFailed int
}

// Run resolves opts.PlaylistName in db, collects its full relational
// closure, copies reachable media into a new archive at opts.OutputPath,
// and writes pack.json last. Fails with rkerr.KindNotFound if no live
// playlist matches, rkerr.KindAmbiguous if more than one does.
func Run(ctx context.Context, db dbaccess.Queryer, opts Options, sink progress.Sink) (Stats, error) {
	if sink == nil {
		sink = progress.Nop()
	}

	playlist, err := findPlaylist(ctx, db, opts.PlaylistName, sink)
	if err != nil {
		return Stats{}, err
	}

	manifest := document.NewManifest()
	manifest.Playlist = playlist

	contentIDs, err := collectClosure(ctx, db, playlist, manifest, sink)
	if err != nil {
		return Stats{}, err
	}
	_ = contentIDs

	if dir := filepath.Dir(opts.OutputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Stats{}, rkerr.Wrap(rkerr.KindIO, "create output directory", err)
		}
	}

	w, err := archive.Create(opts.OutputPath)
	if err != nil {
		return Stats{}, err
	}

	audioFiles, audioStats := packAudioFiles(w, manifest.Tables["djmdContent"], opts.KeepStructure, sink)
	manifest.AudioFiles = audioFiles

	dataFiles, dataStats := packContentDataFiles(w, manifest.Tables["contentFile"], sink)
	manifest.ContentDataFiles = dataFiles

	if err := w.WriteManifest(manifest); err != nil {
		w.Close()
		return Stats{}, err
	}
	if err := w.Close(); err != nil {
		return Stats{}, err
	}

	sink.Notify("pack complete: " + opts.OutputPath)
	return Stats{
		AudioCopied:        audioStats.copied,
		AudioSkipped:       audioStats.skipped,
		AudioFailed:        audioStats.failed,
		ContentDataCopied:  dataStats.copied,
		ContentDataSkipped: dataStats.skipped,
		ContentDataFailed:  dataStats.failed,
	}, nil
}

func findPlaylist(ctx context.Context, db dbaccess.Queryer, name string, sink progress.Sink) (document.Row, error) {
	rows, err := dbaccess.QueryRows(ctx, db,
		"SELECT * FROM djmdPlaylist WHERE Name = ? AND rb_local_deleted = 0", name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, rkerr.New(rkerr.KindNotFound, "playlist '"+name+"' not found")
	}
	if len(rows) > 1 {
		for _, p := range rows {
			id, _ := p.ID()
			sink.Notify("ambiguous match, id=" + id)
		}
		return nil, rkerr.New(rkerr.KindAmbiguous, "multiple live playlists named '"+name+"'")
	}
	return rows[0], nil
}

// collectClosure fetches every table in the playlist's transitive closure
// and stores the results in manifest.Tables, returning the set of content
// IDs in the playlist.
func collectClosure(ctx context.Context, db dbaccess.Queryer, playlist document.Row, manifest *document.Manifest, sink progress.Sink) ([]string, error) {
	playlistID, ok := playlist.ID()
	if !ok {
		return nil, rkerr.New(rkerr.KindSchema, "playlist row missing ID")
	}

	songPlaylists, err := dbaccess.QueryRows(ctx, db,
		"SELECT * FROM djmdSongPlaylist WHERE PlaylistID = ? AND rb_local_deleted = 0", playlistID)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdSongPlaylist"] = songPlaylists

	contentIDs := collectIDs(songPlaylists, "ContentID")
	sink.Notify("tracks: " + itoa(len(contentIDs)))

	contents, err := dbaccess.QueryByIDs(ctx, db, "djmdContent", "ID", contentIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdContent"] = contents

	artistIDs := mergeIDs(
		collectIDs(contents, "ArtistID"),
		collectIDs(contents, "OrgArtistID"),
		collectIDs(contents, "RemixerID"),
		collectIDs(contents, "ComposerID"),
	)
	albumIDs := collectIDs(contents, "AlbumID")
	genreIDs := collectIDs(contents, "GenreID")
	keyIDs := collectIDs(contents, "KeyID")
	labelIDs := collectIDs(contents, "LabelID")
	colorIDs := collectIDs(contents, "ColorID")

	albums, err := dbaccess.QueryByIDs(ctx, db, "djmdAlbum", "ID", albumIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdAlbum"] = albums
	artistIDs = mergeIDs(artistIDs, collectIDs(albums, "AlbumArtistID"))

	artists, err := dbaccess.QueryByIDs(ctx, db, "djmdArtist", "ID", artistIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdArtist"] = artists

	genres, err := dbaccess.QueryByIDs(ctx, db, "djmdGenre", "ID", genreIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdGenre"] = genres

	keys, err := dbaccess.QueryByIDs(ctx, db, "djmdKey", "ID", keyIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdKey"] = keys

	labels, err := dbaccess.QueryByIDs(ctx, db, "djmdLabel", "ID", labelIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdLabel"] = labels

	colors, err := dbaccess.QueryByIDs(ctx, db, "djmdColor", "ID", colorIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdColor"] = colors

	for _, table := range catalog.RelatedTables {
		if table == "hotCueBanklistCue" {
			continue // fetched below, keyed by HotCueBanklistID rather than ContentID
		}
		rows, err := dbaccess.QueryByIDs(ctx, db, table, "ContentID", contentIDs)
		if err != nil {
			return nil, err
		}
		manifest.Tables[table] = rows
	}

	myTagIDs := collectIDs(manifest.Tables["djmdSongMyTag"], "MyTagID")
	myTags, err := dbaccess.QueryByIDs(ctx, db, "djmdMyTag", "ID", myTagIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdMyTag"] = myTags

	hotCueBanklistIDs := collectIDs(manifest.Tables["djmdSongHotCueBanklist"], "HotCueBanklistID")
	hotCueBanklists, err := dbaccess.QueryByIDs(ctx, db, "djmdHotCueBanklist", "ID", hotCueBanklistIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["djmdHotCueBanklist"] = hotCueBanklists

	hotCueBanklistCues, err := dbaccess.QueryByIDs(ctx, db, "hotCueBanklistCue", "HotCueBanklistID", hotCueBanklistIDs)
	if err != nil {
		return nil, err
	}
	manifest.Tables["hotCueBanklistCue"] = hotCueBanklistCues

	return contentIDs, nil
}

func collectIDs(rows []document.Row, column string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range rows {
		v, ok := r[column].AsString()
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		ids = append(ids, v)
	}
	return ids
}

func mergeIDs(sets ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range sets {
		for _, id := range set {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

type copyStats struct {
	copied, skipped, failed int
}

func packAudioFiles(w *archive.Writer, contents []document.Row, keepStructure bool, sink progress.Sink) ([]document.AudioFile, copyStats) {
	var out []document.AudioFile
	var stats copyStats

	for _, content := range contents {
		contentID, ok := content.ID()
		if !ok {
			continue
		}
		folderPath, ok := content["FolderPath"].AsString()
		if !ok || folderPath == "" {
			stats.skipped++
			continue
		}

		if _, err := os.Stat(folderPath); err != nil {
			sink.Notify("warning: audio file not found: " + folderPath)
			stats.skipped++
			continue
		}

		fileName := filepath.Base(folderPath)
		var relative string
		if keepStructure {
			full := pathnorm.ToSlash(folderPath)
			relative = pathnorm.StripDriveLetter(full)
		} else {
			relative = fileName
		}

		entryName := "files/" + pathnorm.ToSlash(relative)
		if err := w.WriteFile(entryName, folderPath); err != nil {
			sink.Notify("warning: failed to add audio file: " + folderPath)
			stats.failed++
			continue
		}

		stats.copied++
		out = append(out, document.AudioFile{
			ContentID:    contentID,
			RelativePath: pathnorm.ToNFC(relative),
		})
	}

	return out, stats
}

func packContentDataFiles(w *archive.Writer, contentFiles []document.Row, sink progress.Sink) ([]document.ContentDataFile, copyStats) {
	var out []document.ContentDataFile
	var stats copyStats

	for _, cf := range contentFiles {
		cfID, _ := cf.ID()
		localPath, ok := cf["rb_local_path"].AsString()
		if !ok || localPath == "" {
			stats.skipped++
			continue
		}
		pioneerRel, ok := cf["Path"].AsString()
		if !ok || pioneerRel == "" {
			stats.skipped++
			continue
		}
		pioneerRel = pathnorm.TrimLeadingSlashes(pioneerRel)

		if _, err := os.Stat(localPath); err != nil {
			sink.Notify("warning: content data file not found: " + localPath)
			stats.skipped++
			continue
		}

		entryName := "content_data/" + pathnorm.ToSlash(pioneerRel)
		if err := w.WriteFile(entryName, localPath); err != nil {
			sink.Notify("warning: failed to add content data file: " + localPath)
			stats.failed++
			continue
		}

		stats.copied++
		out = append(out, document.ContentDataFile{
			ContentFileID: cfID,
			RelativePath:  pathnorm.ToNFC(pioneerRel),
		})
	}

	return out, stats
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
