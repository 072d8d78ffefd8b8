package document

// CurrentVersion is the only staging-document version this engine
// understands; anything else fails with rkerr.KindUnsupportedVersion.
const CurrentVersion = 1

// AudioFile is one entry of pack.json's audio_files array: the content row
// whose media was copied, and the archive-relative path it was copied to.
type AudioFile struct {
	ContentID    string `json:"content_id"`
	RelativePath string `json:"relative_path"`
}

// ContentDataFile is one entry of pack.json's content_data_files array.
type ContentDataFile struct {
	ContentFileID string `json:"content_file_id"`
	RelativePath  string `json:"relative_path"`
}

// Manifest is the staging document: pack.json's decoded shape.
type Manifest struct {
	Version          int                  `json:"version"`
	Playlist         Row                  `json:"playlist"`
	Tables           map[string][]Row     `json:"tables"`
	AudioFiles       []AudioFile          `json:"audio_files"`
	ContentDataFiles []ContentDataFile    `json:"content_data_files"`
}

// NewManifest returns an empty Manifest at CurrentVersion, ready to have
// its Playlist/Tables/AudioFiles/ContentDataFiles populated by the Extractor.
func NewManifest() *Manifest {
	return &Manifest{
		Version: CurrentVersion,
		Tables:  make(map[string][]Row),
	}
}

// TableRows returns m.Tables[table], or nil if the table has no staged rows.
func (m *Manifest) TableRows(table string) []Row {
	return m.Tables[table]
}
