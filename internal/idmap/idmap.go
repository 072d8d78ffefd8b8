// Package idmap is the ID Mapper: given the staging document and the
// target DB, it builds a per-table old-ID → new-ID mapping such that
// rewriting every row's ID and foreign keys through it keeps every
// cross-table reference resolvable, folding duplicate master rows and
// already-present content into existing target IDs instead of allocating.
package idmap

import (
	"context"
	"encoding/json"

	"github.com/naari3/rkpack/internal/catalog"
	"github.com/naari3/rkpack/internal/dbaccess"
	"github.com/naari3/rkpack/internal/document"
)

// Map is a per-table old-ID → new-ID lookup.
type Map map[string]map[string]string

// Lookup returns the new id for (table, oldID), and whether a mapping exists.
func (m Map) Lookup(table, oldID string) (string, bool) {
	t, ok := m[table]
	if !ok {
		return "", false
	}
	id, ok := t[oldID]
	return id, ok
}

func (m Map) set(table, oldID, newID string) {
	t, ok := m[table]
	if !ok {
		t = make(map[string]string)
		m[table] = t
	}
	t[oldID] = newID
}

// allocator hands out fresh monotonic IDs for one table, starting past
// whatever numeric ID already exists in the target.
type allocator struct {
	next int64
}

func newAllocator(maxExisting int64) *allocator {
	return &allocator{next: maxExisting}
}

func (a *allocator) allocate() string {
	a.next++
	return itoa(a.next)
}

// itoa avoids pulling in strconv for a single call site elsewhere in the
// package; kept trivial and allocation-light.
func itoa(n int64) string {
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

// DuplicateContent is the result of content-hash dedup: the set of staged
// ContentIDs that resolve to a pre-existing target djmdContent (the
// "skip set"), and the mapping from staged ContentID to the existing
// target ContentID.
type DuplicateContent struct {
	Skip     map[string]bool
	Existing map[string]string
}

// DetectDuplicateContent finds every staged contentFile row whose Hash
// matches a live target contentFile.Hash, and records its staged
// ContentID as already present in the target.
func DetectDuplicateContent(ctx context.Context, q dbaccess.Queryer, tables map[string][]document.Row) (DuplicateContent, error) {
	dup := DuplicateContent{Skip: make(map[string]bool), Existing: make(map[string]string)}

	for _, cf := range tables["contentFile"] {
		hash, ok := cf["Hash"].AsString()
		if !ok || hash == "" {
			continue
		}
		stagedContentID, ok := cf["ContentID"].AsString()
		if !ok {
			continue
		}

		existing, found, err := dbaccess.FindByColumn(ctx, q, "contentFile", "Hash", hash)
		if err != nil {
			return dup, err
		}
		if !found {
			continue
		}
		existingContentID, ok := existing["ContentID"].AsString()
		if !ok {
			continue
		}
		dup.Skip[stagedContentID] = true
		dup.Existing[stagedContentID] = existingContentID
	}

	return dup, nil
}

// BuildMasterIDMap maps every staged master-table row: to the live target
// row's ID when a name (or, for djmdColor, ColorCode) match exists,
// otherwise to a freshly allocated ID.
func BuildMasterIDMap(ctx context.Context, q dbaccess.Queryer, tables map[string][]document.Row, m Map) error {
	for _, table := range catalog.MasterTables {
		rows := tables[table]
		if len(rows) == 0 {
			continue
		}

		maxID, err := dbaccess.MaxNumericID(ctx, q, table)
		if err != nil {
			return err
		}
		alloc := newAllocator(maxID)

		nameCol, hasNameCol := catalog.NameColumn(table)

		for _, row := range rows {
			oldID, ok := row.ID()
			if !ok {
				continue
			}

			var existingID string
			var found bool
			if hasNameCol {
				if catalog.IsColorCodeDedup(table) {
					if code, ok := row[nameCol].AsInt64(); ok {
						existing, f, err := dbaccess.FindByColumn(ctx, q, table, nameCol, code)
						if err != nil {
							return err
						}
						if f {
							existingID, found = existing.ID()
						}
					}
				} else if nameVal, ok := row[nameCol].AsString(); ok {
					existing, f, err := dbaccess.FindByColumn(ctx, q, table, nameCol, nameVal)
					if err != nil {
						return err
					}
					if f {
						existingID, found = existing.ID()
					}
				}
			}

			if found {
				m.set(table, oldID, existingID)
				continue
			}
			m.set(table, oldID, alloc.allocate())
		}
	}
	return nil
}

// BuildContentIDMap maps every staged djmdContent row: to the pre-existing
// ContentID when content-hash dedup found one, otherwise to a freshly
// allocated ID.
func BuildContentIDMap(ctx context.Context, q dbaccess.Queryer, tables map[string][]document.Row, dup DuplicateContent, m Map) error {
	const table = "djmdContent"
	rows := tables[table]

	maxID, err := dbaccess.MaxNumericID(ctx, q, table)
	if err != nil {
		return err
	}
	alloc := newAllocator(maxID)

	for _, row := range rows {
		oldID, ok := row.ID()
		if !ok {
			continue
		}
		if existingID, ok := dup.Existing[oldID]; ok {
			m.set(table, oldID, existingID)
			continue
		}
		m.set(table, oldID, alloc.allocate())
	}
	return nil
}

// BuildRelatedIDMaps allocates a fresh ID for the single staged playlist,
// for every staged related/detail-table row, and for every staged
// djmdSongPlaylist row — unconditionally, even for rows whose ContentID
// is in the skip set; the mapping is produced but unused for those at
// insert time.
func BuildRelatedIDMaps(ctx context.Context, q dbaccess.Queryer, manifest *document.Manifest, m Map) error {
	{
		maxID, err := dbaccess.MaxNumericID(ctx, q, "djmdPlaylist")
		if err != nil {
			return err
		}
		alloc := newAllocator(maxID)
		if oldID, ok := manifest.Playlist.ID(); ok {
			m.set("djmdPlaylist", oldID, alloc.allocate())
		}
	}

	tables := append(append([]string{}, catalog.RelatedTables...), "djmdSongPlaylist")
	for _, table := range tables {
		rows := manifest.Tables[table]
		if len(rows) == 0 {
			continue
		}
		maxID, err := dbaccess.MaxNumericID(ctx, q, table)
		if err != nil {
			return err
		}
		alloc := newAllocator(maxID)
		for _, row := range rows {
			oldID, ok := row.ID()
			if !ok {
				continue
			}
			m.set(table, oldID, alloc.allocate())
		}
	}
	return nil
}

// Build runs every mapping phase in the order the injector requires:
// master tables, then djmdContent, then playlist and detail tables.
func Build(ctx context.Context, q dbaccess.Queryer, manifest *document.Manifest, dup DuplicateContent) (Map, error) {
	m := make(Map)
	if err := BuildMasterIDMap(ctx, q, manifest.Tables, m); err != nil {
		return nil, err
	}
	if err := BuildContentIDMap(ctx, q, manifest.Tables, dup, m); err != nil {
		return nil, err
	}
	if err := BuildRelatedIDMaps(ctx, q, manifest, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ApplyMapping returns a copy of row with its ID (if mapped), its
// foreign-key columns (per the Schema Catalog, if mapped), and its
// sync-bookkeeping columns (if present) rewritten.
func ApplyMapping(row document.Row, table string, m Map) document.Row {
	out := row.Clone()

	if oldID, ok := out.ID(); ok {
		if newID, ok := m.Lookup(table, oldID); ok {
			out["ID"] = document.TextValue(newID)
		}
	}

	for _, fk := range catalog.ForeignKeys(table) {
		oldFK, ok := out[fk.Column].AsString()
		if !ok {
			continue
		}
		if newFK, ok := m.Lookup(fk.Referent, oldFK); ok {
			out[fk.Column] = document.TextValue(newFK)
		}
	}

	for _, col := range catalog.ResetToZeroColumns {
		if _, present := out[col]; present {
			out[col] = document.IntValue(0)
		}
	}
	for _, col := range catalog.ResetToNullColumns {
		if _, present := out[col]; present {
			out[col] = document.Null()
		}
	}

	return out
}

// RemapJSONBlob rewrites table's embedded JSON-blob column in place (per
// the Schema Catalog's JSONBlobField), parsing the array, rewriting each
// element's ID (through the referent table's map) and ContentID (through
// djmdContent's map), and re-serializing. A blob that fails to parse is
// left unchanged, per the infallible row-rewriting design.
func RemapJSONBlob(row document.Row, table string, m Map) {
	blob, ok := catalog.JSONBlobField(table)
	if !ok {
		return
	}
	raw, ok := row[blob.Column].AsString()
	if !ok {
		return
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return
	}

	for _, item := range items {
		if idVal, ok := item["ID"].(string); ok {
			if newID, ok := m.Lookup(blob.Referent, idVal); ok {
				item["ID"] = newID
			}
		}
		if cidVal, ok := item["ContentID"].(string); ok {
			if newCID, ok := m.Lookup(catalog.ContentReferentTable, cidVal); ok {
				item["ContentID"] = newCID
			}
		}
	}

	newBlob, err := json.Marshal(items)
	if err != nil {
		return
	}
	row[blob.Column] = document.TextValue(string(newBlob))
}
