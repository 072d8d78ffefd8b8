// Package catalog is the Schema Catalog: static, declarative knowledge of
// the Library DB's tables — which column names an entity, which columns
// are foreign keys and what they reference, which columns carry an
// embedded JSON blob of denormalized rows, and which columns are
// sync-bookkeeping fields reset on import. It performs no I/O.
package catalog

// ForeignKey names one foreign-key column on a table and the table it
// refers to.
type ForeignKey struct {
	Column   string
	Referent string
}

// JSONBlob names a column holding a serialized JSON array of objects, and
// the table each object's "ID" field refers to. Every such blob's
// "ContentID" field (when present) refers to djmdContent; that referent is
// the same for every blob table, so it isn't repeated here.
type JSONBlob struct {
	Column   string
	Referent string
}

// MasterTables is every master (catalog/dedup-by-name-or-code) table, in
// the order the Injector inserts them.
var MasterTables = []string{
	"djmdArtist",
	"djmdAlbum",
	"djmdGenre",
	"djmdKey",
	"djmdLabel",
	"djmdColor",
	"djmdMyTag",
	"djmdHotCueBanklist",
}

// RelatedTables is every per-content detail table (plus the cross-cut
// hotCueBanklistCue table), in the order the Injector inserts them.
var RelatedTables = []string{
	"djmdCue",
	"djmdActiveCensor",
	"djmdMixerParam",
	"djmdSongMyTag",
	"djmdSongTagList",
	"djmdSongHotCueBanklist",
	"hotCueBanklistCue",
	"contentCue",
	"contentActiveCensor",
	"contentFile",
}

var nameColumns = map[string]string{
	"djmdArtist":         "Name",
	"djmdAlbum":          "Name",
	"djmdGenre":          "Name",
	"djmdKey":            "ScaleName",
	"djmdLabel":          "Name",
	"djmdColor":          "ColorCode",
	"djmdMyTag":          "Name",
	"djmdHotCueBanklist": "Name",
}

// NameColumn returns the column used to look up an existing row of table by
// its natural-language identity, and whether table is a master table at
// all. For djmdColor this returns "ColorCode", but callers must not treat
// it as a string-equality name lookup: ColorCode is an integer and is
// matched numerically.
func NameColumn(table string) (string, bool) {
	col, ok := nameColumns[table]
	return col, ok
}

// IsColorCodeDedup reports whether table dedupes by an integer code column
// rather than a string name column.
func IsColorCodeDedup(table string) bool {
	return table == "djmdColor"
}

var foreignKeys = map[string][]ForeignKey{
	"djmdContent": {
		{Column: "ArtistID", Referent: "djmdArtist"},
		{Column: "AlbumID", Referent: "djmdAlbum"},
		{Column: "GenreID", Referent: "djmdGenre"},
		{Column: "KeyID", Referent: "djmdKey"},
		{Column: "LabelID", Referent: "djmdLabel"},
		{Column: "ColorID", Referent: "djmdColor"},
		{Column: "RemixerID", Referent: "djmdArtist"},
		{Column: "OrgArtistID", Referent: "djmdArtist"},
		{Column: "ComposerID", Referent: "djmdArtist"},
		{Column: "MasterSongID", Referent: "djmdContent"},
	},
	"djmdAlbum": {
		{Column: "AlbumArtistID", Referent: "djmdArtist"},
	},
	"djmdSongPlaylist": {
		{Column: "PlaylistID", Referent: "djmdPlaylist"},
		{Column: "ContentID", Referent: "djmdContent"},
	},
	"djmdCue":             {{Column: "ContentID", Referent: "djmdContent"}},
	"djmdActiveCensor":    {{Column: "ContentID", Referent: "djmdContent"}},
	"djmdMixerParam":      {{Column: "ContentID", Referent: "djmdContent"}},
	"djmdSongMyTag": {
		{Column: "MyTagID", Referent: "djmdMyTag"},
		{Column: "ContentID", Referent: "djmdContent"},
	},
	"djmdSongTagList": {{Column: "ContentID", Referent: "djmdContent"}},
	"djmdSongHotCueBanklist": {
		{Column: "HotCueBanklistID", Referent: "djmdHotCueBanklist"},
		{Column: "ContentID", Referent: "djmdContent"},
	},
	"hotCueBanklistCue":   {{Column: "HotCueBanklistID", Referent: "djmdHotCueBanklist"}},
	"contentCue":          {{Column: "ContentID", Referent: "djmdContent"}},
	"contentActiveCensor": {{Column: "ContentID", Referent: "djmdContent"}},
	"contentFile":         {{Column: "ContentID", Referent: "djmdContent"}},
}

// ForeignKeys returns the foreign-key columns declared for table, in a
// fixed order, or nil if table has none.
func ForeignKeys(table string) []ForeignKey {
	return foreignKeys[table]
}

var jsonBlobs = map[string]JSONBlob{
	"contentCue":          {Column: "Cues", Referent: "djmdCue"},
	"contentActiveCensor": {Column: "ActiveCensors", Referent: "djmdActiveCensor"},
	"hotCueBanklistCue":   {Column: "Cues", Referent: "djmdSongHotCueBanklist"},
}

// JSONBlobField returns the embedded-JSON-blob column declared for table
// and whether table has one.
func JSONBlobField(table string) (JSONBlob, bool) {
	b, ok := jsonBlobs[table]
	return b, ok
}

// ContentReferentTable is the table every JSON-blob object's "ContentID"
// field refers to.
const ContentReferentTable = "djmdContent"

// ResetToZeroColumns are sync-bookkeeping columns set to 0 on import, when present.
var ResetToZeroColumns = []string{
	"rb_data_status",
	"rb_local_data_status",
	"rb_local_file_status",
	"rb_local_synced",
}

// ResetToNullColumns are sync-bookkeeping columns set to null on import, when present.
var ResetToNullColumns = []string{
	"usn",
	"rb_local_usn",
	"rb_insync_local_usn",
}

// IDColumn is the primary-key column name shared by every Library table.
const IDColumn = "ID"

// DeletedColumn is the tombstone column: non-zero means the row is absent.
const DeletedColumn = "rb_local_deleted"
