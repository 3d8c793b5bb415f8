package dvdread

import "errors"

// BlockSize is the fixed DVD logical block (sector) length in bytes.
const BlockSize = 2048

// VolumeNavIndex selects the volume-level navigation info in OpenNavInfo.
const VolumeNavIndex = 0

var (
	// ErrNotDVD reports that a path does not point at a readable DVD source.
	ErrNotDVD = errors.New("not a readable dvd source")
	// ErrNoNavInfo reports that the requested navigation info is absent.
	ErrNoNavInfo = errors.New("navigation info not found")
	// ErrNoTitleFile reports that a title set has no video object file.
	ErrNoTitleFile = errors.New("title set has no video object file")
)

// Disc is an open optical disc, device, or disc-image directory.
type Disc interface {
	// OpenNavInfo parses navigation metadata. Index 0 returns volume-level
	// info (title table); indexes >= 1 return the numbered title set.
	OpenNavInfo(index int) (*NavInfo, error)

	// OpenTitleFile opens the video object stream for a title set.
	OpenTitleFile(titleSet int) (File, error)

	Close() error
}

// File is an open title-set video object stream addressed in logical blocks.
type File interface {
	// ReadBlocks reads up to count blocks starting at block offset into p,
	// which must hold count*BlockSize bytes. It returns the number of whole
	// blocks read; zero with a nil error means end of file.
	ReadBlocks(offset int64, count int, p []byte) (int, error)

	// BlockCount reports the file length in whole logical blocks.
	BlockCount() int64

	Close() error
}

// NavInfo carries parsed navigation structures. Fields are nil when the
// backing metadata is absent; callers validate the pieces they need.
type NavInfo struct {
	// VolumeMeta is the disc-wide metadata block. Volume level only.
	VolumeMeta *VolumeMeta
	// TitleTable lists the usable titles on the disc. Volume level only.
	TitleTable *TitleTable

	// TitleSetMeta is the title-set metadata block. Title-set level only.
	TitleSetMeta *TitleSetMeta
	// ProgramChains is the title-set program chain table.
	ProgramChains *ProgramChainTable
	// TitlePointers maps navigation titles to their program chains.
	TitlePointers *TitlePointerTable

	release func() error
}

// SetRelease attaches the cleanup Close will run. Backends outside this
// package register their release logic through it.
func (n *NavInfo) SetRelease(fn func() error) {
	n.release = fn
}

// Close releases the navigation info. Safe on nil and safe to repeat.
func (n *NavInfo) Close() error {
	if n == nil || n.release == nil {
		return nil
	}
	release := n.release
	n.release = nil
	return release()
}

// VolumeMeta is disc-wide identification metadata.
type VolumeMeta struct {
	VolumeID  string
	TitleSets int
}

// TitleSetMeta identifies a single title set.
type TitleSetMeta struct {
	Number int
}

// TitleTable lists the titles a viewer can select.
type TitleTable struct {
	Titles []TitleEntry
}

// Count returns the number of usable titles.
func (t *TitleTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.Titles)
}

// TitleEntry describes one selectable title.
type TitleEntry struct {
	// TitleSet is the title set holding the title's video objects.
	TitleSet int
	// NavTitle is the title's 1-based number within its title set.
	NavTitle int
	// Chapters is the part-of-title (chapter) count.
	Chapters int
}

// ProgramChainTable holds a title set's program chains in table order.
type ProgramChainTable struct {
	Chains []*ProgramChain
}

// ProgramChain describes playback order for one title.
type ProgramChain struct {
	Programs int
	// Cells is the cell playback table; nil means the table is absent.
	Cells []CellPlayback
}

// CellPlayback is one contiguous playback unit inside a program chain.
type CellPlayback struct {
	FirstSector int64
	LastSector  int64
}

// TitlePointerTable maps navigation titles to part-of-title pointers.
type TitlePointerTable struct {
	Titles []TitlePointers
}

// TitlePointers lists the part-of-title entries for one navigation title.
type TitlePointers struct {
	Parts []PartPointer
}

// PartPointer addresses the program chain and program where a part starts.
type PartPointer struct {
	// ProgramChain is the 1-based index into the program chain table.
	ProgramChain int
	// Program is the 1-based program (chapter) within the chain.
	Program int
}
