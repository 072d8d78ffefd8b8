// Package unpack is the Injector: it loads a .rkp archive's staging
// document, maps every staged ID into the target Library DB's ID space,
// extracts reachable media next to the target, and inserts the mapped
// rows inside a single transaction, skipping rows that dedup to
// something already present.
package unpack

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/naari3/rkpack/internal/archive"
	"github.com/naari3/rkpack/internal/catalog"
	"github.com/naari3/rkpack/internal/dbaccess"
	"github.com/naari3/rkpack/internal/document"
	"github.com/naari3/rkpack/internal/idmap"
	"github.com/naari3/rkpack/internal/pathnorm"
	"github.com/naari3/rkpack/internal/platform"
	"github.com/naari3/rkpack/internal/progress"
	"github.com/naari3/rkpack/internal/rkerr"
)

// State names the Injector's run phases, in order, per the state machine
// this package implements: Opened → Manifested → Mapped → MediaExtracted
// → Injecting → Committed | Aborted.
type State int

const (
	StateOpened State = iota
	StateManifested
	StateMapped
	StateMediaExtracted
	StateInjecting
	StateCommitted
	StateAborted
)

// Options configures a single unpack run.
type Options struct {
	PackPath string
	DestDir  string
}

// Stats summarizes a completed unpack run.
type Stats struct {
	Inserted, Skipped                     int
	DuplicateTracks                       int
	AudioCopied, AudioSkipped, AudioFailed int
	DataCopied, DataSkipped, DataFailed    int
	FinalState                            State
}

// Run drives the full Opened→Committed|Aborted state machine against db
// for the archive at opts.PackPath, extracting media into opts.DestDir.
// Any failure rolls the transaction back and leaves the target DB
// untouched; media already copied to disk before the failing step is not
// retracted.
func Run(ctx context.Context, db *sql.DB, opts Options, sink progress.Sink) (Stats, error) {
	if sink == nil {
		sink = progress.Nop()
	}

	r, err := archive.Open(opts.PackPath)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()

	var manifest document.Manifest
	if err := r.ReadManifest(&manifest); err != nil {
		return Stats{}, err
	}
	if manifest.Version != document.CurrentVersion {
		return Stats{}, rkerr.New(rkerr.KindUnsupportedVersion, "unsupported pack version")
	}

	dup, err := idmap.DetectDuplicateContent(ctx, db, manifest.Tables)
	if err != nil {
		return Stats{}, err
	}
	for stagedID, existingID := range dup.Existing {
		sink.Notify("duplicate track detected: staged content " + stagedID + " -> existing " + existingID)
	}

	idm, err := idmap.Build(ctx, db, &manifest, dup)
	if err != nil {
		return Stats{}, err
	}

	shareDir, err := platform.ShareDir()
	if err != nil {
		return Stats{}, rkerr.Wrap(rkerr.KindIO, "resolve share directory", err)
	}

	audioActual, audioStats, err := extractAudioFiles(r, &manifest, opts.DestDir, dup.Skip, sink)
	if err != nil {
		return Stats{}, err
	}
	dataActual, dataStats, err := extractContentDataFiles(r, &manifest, shareDir, sink)
	if err != nil {
		return Stats{}, err
	}

	targetDBID, targetDeviceID := targetDBInfo(ctx, db)

	sink.Notify("inserting into target database...")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, rkerr.Wrap(rkerr.KindDB, "begin transaction", err)
	}

	stats := Stats{
		DuplicateTracks: len(dup.Skip),
		AudioCopied:     audioStats.copied,
		AudioSkipped:    audioStats.skipped,
		AudioFailed:     audioStats.failed,
		DataCopied:      dataStats.copied,
		DataSkipped:     dataStats.skipped,
		DataFailed:      dataStats.failed,
	}

	if err := injectAll(ctx, tx, &manifest, idm, dup, audioActual, dataActual, opts.DestDir, shareDir, targetDBID, targetDeviceID, &stats); err != nil {
		tx.Rollback()
		stats.FinalState = StateAborted
		return stats, err
	}

	if err := tx.Commit(); err != nil {
		stats.FinalState = StateAborted
		return stats, rkerr.Wrap(rkerr.KindDB, "commit transaction", err)
	}
	stats.FinalState = StateCommitted

	sink.Notify("unpack complete")
	return stats, nil
}

func injectAll(ctx context.Context, tx *sql.Tx, manifest *document.Manifest, idm idmap.Map, dup idmap.DuplicateContent, audioActual, dataActual map[string]string, destDir, shareDir, targetDBID, targetDeviceID string, stats *Stats) error {
	if err := insertMasterTables(ctx, tx, manifest, idm, stats); err != nil {
		return err
	}
	if err := insertContentRows(ctx, tx, manifest, idm, dup.Skip, audioActual, destDir, targetDBID, targetDeviceID, stats); err != nil {
		return err
	}
	if err := insertRelatedTables(ctx, tx, manifest, idm, dup.Skip, dataActual, shareDir, stats); err != nil {
		return err
	}
	if err := insertPlaylistAndSongs(ctx, tx, manifest, idm, stats); err != nil {
		return err
	}
	return nil
}

func insertMasterTables(ctx context.Context, tx *sql.Tx, manifest *document.Manifest, idm idmap.Map, stats *Stats) error {
	for _, table := range catalog.MasterTables {
		for _, row := range manifest.Tables[table] {
			oldID, ok := row.ID()
			if !ok {
				continue
			}
			mapped := idmap.ApplyMapping(row, table, idm)

			if newID, ok := idm.Lookup(table, oldID); ok {
				exists, err := dbaccess.RowExists(ctx, tx, table, catalog.IDColumn, newID)
				if err != nil {
					return err
				}
				if exists {
					stats.Skipped++
					continue
				}
			}

			if err := dbaccess.InsertRow(ctx, tx, table, mapped); err != nil {
				return err
			}
			stats.Inserted++
		}
	}
	return nil
}

func insertContentRows(ctx context.Context, tx *sql.Tx, manifest *document.Manifest, idm idmap.Map, skip map[string]bool, audioActual map[string]string, destDir, targetDBID, targetDeviceID string, stats *Stats) error {
	const table = "djmdContent"
	for _, row := range manifest.Tables[table] {
		oldID, ok := row.ID()
		if !ok {
			continue
		}
		if skip[oldID] {
			stats.Skipped++
			continue
		}

		mapped := idmap.ApplyMapping(row, table, idm)

		if targetDBID != "" {
			mapped["MasterDBID"] = document.TextValue(targetDBID)
		}
		if targetDeviceID != "" {
			mapped["DeviceID"] = document.TextValue(targetDeviceID)
		}

		if actual, ok := audioActual[oldID]; ok {
			mapped["FolderPath"] = document.TextValue(actual)
			mapped["rb_LocalFolderPath"] = document.TextValue(actual)
		} else {
			destSlash := pathnorm.ToSlash(destDir)
			if !strings.HasSuffix(destSlash, "/") {
				destSlash += "/"
			}
			mapped["FolderPath"] = document.TextValue(destSlash)
			mapped["rb_LocalFolderPath"] = document.TextValue(destSlash)
		}

		if err := dbaccess.InsertRow(ctx, tx, table, mapped); err != nil {
			return err
		}
		stats.Inserted++
	}
	return nil
}

func insertRelatedTables(ctx context.Context, tx *sql.Tx, manifest *document.Manifest, idm idmap.Map, skip map[string]bool, dataActual map[string]string, shareDir string, stats *Stats) error {
	for _, table := range catalog.RelatedTables {
		for _, row := range manifest.Tables[table] {
			if cid, ok := row["ContentID"].AsString(); ok && skip[cid] {
				stats.Skipped++
				continue
			}

			mapped := idmap.ApplyMapping(row, table, idm)

			if table == "contentFile" {
				cfID, _ := row.ID()
				if actual, ok := dataActual[cfID]; ok {
					mapped["rb_local_path"] = document.TextValue(actual)
				} else if relPath, ok := mapped["Path"].AsString(); ok && relPath != "" {
					trimmed := pathnorm.TrimLeadingSlashes(relPath)
					mapped["rb_local_path"] = document.TextValue(filepath.Join(shareDir, trimmed))
				}
			}

			idmap.RemapJSONBlob(mapped, table, idm)

			if err := dbaccess.InsertRow(ctx, tx, table, mapped); err != nil {
				return err
			}
			stats.Inserted++
		}
	}
	return nil
}

func insertPlaylistAndSongs(ctx context.Context, tx *sql.Tx, manifest *document.Manifest, idm idmap.Map, stats *Stats) error {
	if manifest.Playlist != nil {
		mapped := idmap.ApplyMapping(manifest.Playlist, "djmdPlaylist", idm)
		// The playlist always lands at the top level; the source's folder
		// nesting is not reconstructed.
		mapped["ParentID"] = document.TextValue("root")
		if err := dbaccess.InsertRow(ctx, tx, "djmdPlaylist", mapped); err != nil {
			return err
		}
		stats.Inserted++
	}

	for _, row := range manifest.Tables["djmdSongPlaylist"] {
		mapped := idmap.ApplyMapping(row, "djmdSongPlaylist", idm)
		if err := dbaccess.InsertRow(ctx, tx, "djmdSongPlaylist", mapped); err != nil {
			return err
		}
		stats.Inserted++
	}
	return nil
}

func targetDBInfo(ctx context.Context, q dbaccess.Queryer) (dbid, deviceID string) {
	rows, err := dbaccess.QueryRows(ctx, q, "SELECT DBID FROM djmdProperty LIMIT 1")
	if err == nil && len(rows) > 0 {
		dbid, _ = rows[0]["DBID"].AsString()
	}
	rows, err = dbaccess.QueryRows(ctx, q, "SELECT ID FROM djmdDevice WHERE rb_local_deleted = 0 LIMIT 1")
	if err == nil && len(rows) > 0 {
		deviceID, _ = rows[0]["ID"].AsString()
	}
	return dbid, deviceID
}

type copyStats struct {
	copied, skipped, failed int
}

func extractAudioFiles(r *archive.Reader, manifest *document.Manifest, destDir string, skip map[string]bool, sink progress.Sink) (map[string]string, copyStats, error) {
	actual := make(map[string]string)
	var stats copyStats

	for _, af := range manifest.AudioFiles {
		if skip[af.ContentID] {
			stats.skipped++
			continue
		}

		entryName := "files/" + pathnorm.ToSlash(af.RelativePath)
		fileName := filepath.Base(af.RelativePath)
		target := filepath.Join(destDir, fileName)

		if err := r.ExtractTo(entryName, target); err != nil {
			sink.Notify("warning: failed to extract audio file: " + entryName)
			stats.failed++
			continue
		}
		stats.copied++
		actual[af.ContentID] = pathnorm.ToSlash(pathnorm.ActualPath(target))
	}

	sink.Notify("audio files placed")
	return actual, stats, nil
}

func extractContentDataFiles(r *archive.Reader, manifest *document.Manifest, shareDir string, sink progress.Sink) (map[string]string, copyStats, error) {
	actual := make(map[string]string)
	var stats copyStats

	for _, df := range manifest.ContentDataFiles {
		entryName := "content_data/" + pathnorm.ToSlash(df.RelativePath)
		target := filepath.Join(shareDir, filepath.FromSlash(df.RelativePath))

		if err := r.ExtractTo(entryName, target); err != nil {
			sink.Notify("warning: failed to extract content data file: " + entryName)
			stats.failed++
			continue
		}
		stats.copied++
		actual[df.ContentFileID] = pathnorm.ActualPath(target)
	}

	if len(manifest.ContentDataFiles) > 0 {
		sink.Notify("content data files placed")
	}
	return actual, stats, nil
}
