package stream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"dvdstream/internal/dvdread"
	"dvdstream/internal/logging"
)

// BlockSize is the read granularity every Read call delivers.
const BlockSize = dvdread.BlockSize

// Source streams one DVD title as consecutive logical blocks. A Source is
// single-session and not safe for concurrent use; the caller serializes
// access or keeps one Source per goroutine.
type Source struct {
	opts   Options
	logger *slog.Logger

	// openDisc is swapped out by tests to serve synthetic discs.
	openDisc func(path string) (dvdread.Disc, error)

	disc         dvdread.Disc
	volumeInfo   *dvdread.NavInfo
	titleSetInfo *dvdread.NavInfo
	file         dvdread.File

	volumeID    string
	titleCount  int
	title       int
	titleSet    int
	chapters    int
	cells       int
	totalBlocks int64
	byteSize    int64
	cursorBlock int64
}

// SessionInfo is a snapshot of an open session's resolved facts.
type SessionInfo struct {
	VolumeID    string
	TitleCount  int
	Title       int
	TitleSet    int
	Chapters    int
	Cells       int
	TotalBlocks int64
	ByteSize    int64
}

// New builds an unopened Source.
func New(opts Options, logger *slog.Logger) *Source {
	return &Source{
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "stream"),
		openDisc: dvdread.Open,
	}
}

// Open resolves the locator, selects a title, and acquires the disc, volume
// info, title-set info, and title file handles. On any failure every handle
// acquired so far is released before the error is returned.
func (s *Source) Open(locator string) error {
	if s.disc != nil {
		return ErrAlreadyOpen
	}

	path := TrimScheme(locator)

	disc, err := s.openDisc(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDiscOpen, path, err)
	}

	var (
		volumeInfo   *dvdread.NavInfo
		titleSetInfo *dvdread.NavInfo
		file         dvdread.File
		opened       bool
	)
	defer func() {
		if opened {
			return
		}
		if file != nil {
			_ = file.Close()
		}
		_ = titleSetInfo.Close()
		_ = volumeInfo.Close()
		_ = disc.Close()
	}()

	// Probe that the disc can produce volume navigation info at all before
	// relying on the structures below.
	probe, err := disc.OpenNavInfo(dvdread.VolumeNavIndex)
	if err != nil {
		return fmt.Errorf("%w: navigation probe: %w", ErrDiscOpen, err)
	}
	_ = probe.Close()

	volumeInfo, err = disc.OpenNavInfo(dvdread.VolumeNavIndex)
	if err != nil {
		return fmt.Errorf("%w: volume info: %w", ErrDiscStructure, err)
	}
	if volumeInfo.VolumeMeta == nil || volumeInfo.TitleTable == nil {
		return fmt.Errorf("%w: volume info incomplete", ErrDiscStructure)
	}

	titleCount := volumeInfo.TitleTable.Count()
	if titleCount < 1 {
		return fmt.Errorf("%w: disc reports no usable titles", ErrDiscStructure)
	}
	s.logger.Info("disc opened",
		logging.String(logging.FieldDevice, path),
		logging.String("volume_id", volumeInfo.VolumeMeta.VolumeID),
		logging.Int("titles", titleCount),
	)

	title := s.opts.Title
	if title < 1 || title > titleCount {
		if title != -1 {
			s.logger.Warn("requested title out of range, using title 1",
				logging.Int("requested", title),
				logging.Int("titles", titleCount),
			)
		}
		title = 1
	}
	s.logger.Info("selected title", logging.Int(logging.FieldTitle, title))

	entry := volumeInfo.TitleTable.Titles[title-1]
	titleSet := entry.TitleSet

	titleSetInfo, err = disc.OpenNavInfo(titleSet)
	if err != nil {
		return fmt.Errorf("%w: title set %d info: %w", ErrDiscStructure, titleSet, err)
	}
	if titleSetInfo.TitleSetMeta == nil {
		return fmt.Errorf("%w: title set %d metadata missing", ErrDiscStructure, titleSet)
	}
	if titleSetInfo.ProgramChains == nil || len(titleSetInfo.ProgramChains.Chains) == 0 {
		return fmt.Errorf("%w: title set %d has no program chains", ErrDiscStructure, titleSet)
	}
	if titleSetInfo.TitlePointers == nil || len(titleSetInfo.TitlePointers.Titles) == 0 {
		return fmt.Errorf("%w: title set %d has no title pointers", ErrDiscStructure, titleSet)
	}

	file, err = disc.OpenTitleFile(titleSet)
	if err != nil {
		return fmt.Errorf("%w: title set %d file: %w", ErrDiscOpen, titleSet, err)
	}

	chain, err := resolveProgramChain(titleSetInfo, entry.NavTitle)
	if err != nil {
		return fmt.Errorf("title set %d: %w", titleSet, err)
	}

	s.disc = disc
	s.volumeInfo = volumeInfo
	s.titleSetInfo = titleSetInfo
	s.file = file
	s.volumeID = volumeInfo.VolumeMeta.VolumeID
	s.titleCount = titleCount
	s.title = title
	s.titleSet = titleSet
	s.chapters = chain.Programs
	s.cells = len(chain.Cells)
	s.totalBlocks = file.BlockCount()
	s.byteSize = s.totalBlocks * BlockSize
	s.cursorBlock = 0
	opened = true

	s.logger.Info("title stream ready",
		logging.Int(logging.FieldTitle, title),
		logging.Int(logging.FieldTitleSet, titleSet),
		logging.Int("chapters", s.chapters),
		logging.Int("cells", s.cells),
		logging.Int64("blocks", s.totalBlocks),
		logging.Int64("bytes", s.byteSize),
	)
	return nil
}

// resolveProgramChain follows the navigation title's first part-of-title
// pointer to its program chain and checks the cell playback table exists.
func resolveProgramChain(info *dvdread.NavInfo, navTitle int) (*dvdread.ProgramChain, error) {
	if navTitle < 1 || navTitle > len(info.TitlePointers.Titles) {
		return nil, fmt.Errorf("%w: navigation title %d out of range", ErrDiscStructure, navTitle)
	}
	parts := info.TitlePointers.Titles[navTitle-1].Parts
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: navigation title %d has no parts", ErrDiscStructure, navTitle)
	}

	pgcn := parts[0].ProgramChain
	if pgcn < 1 || pgcn > len(info.ProgramChains.Chains) {
		return nil, fmt.Errorf("%w: program chain %d out of range", ErrDiscStructure, pgcn)
	}
	chain := info.ProgramChains.Chains[pgcn-1]
	if chain == nil || chain.Cells == nil {
		return nil, fmt.Errorf("%w: program chain %d has no cell playback table", ErrDiscStructure, pgcn)
	}
	return chain, nil
}

// Read copies the next logical block into p and advances the cursor. The
// cursor moves even when the underlying read comes back short, and the end
// check runs after the advance, so the read that lands on the final block
// index reports io.EOF rather than its payload. Callers therefore see the
// end of stream one call after the last block position is passed.
func (s *Source) Read(p []byte) (int, error) {
	if s.disc == nil || s.file == nil {
		return 0, ErrNotOpen
	}
	if len(p) < BlockSize {
		return 0, fmt.Errorf("read buffer holds %d bytes, need at least %d", len(p), BlockSize)
	}

	blocks, err := s.file.ReadBlocks(s.cursorBlock, 1, p)
	s.cursorBlock++
	if err != nil {
		return 0, fmt.Errorf("read block %d: %w", s.cursorBlock-1, err)
	}

	n := blocks * BlockSize
	if n == 0 || s.cursorBlock >= s.totalBlocks {
		return 0, io.EOF
	}
	return n, nil
}

// Seek always fails; the stream is forward-only. The cursor is untouched.
func (s *Source) Seek(offset int64, whence int) (int64, error) {
	if s.disc == nil {
		return 0, ErrNotOpen
	}
	s.logger.Warn("seek requested on forward-only stream",
		logging.Int64("offset", offset),
		logging.Int("whence", whence),
	)
	return 0, ErrSeekUnsupported
}

// Close releases every handle the session acquired: title file, title-set
// info, volume info, then the disc. Handles that were never acquired, or
// were already released, are skipped, so Close is safe after a failed Open
// and safe to call repeatedly.
func (s *Source) Close() error {
	var errs []error
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close title file: %w", err))
		}
		s.file = nil
	}
	if err := s.titleSetInfo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close title set info: %w", err))
	}
	s.titleSetInfo = nil
	if err := s.volumeInfo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close volume info: %w", err))
	}
	s.volumeInfo = nil
	if s.disc != nil {
		if err := s.disc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close disc: %w", err))
		}
		s.disc = nil
	}
	return errors.Join(errs...)
}

// Size reports the stream length in bytes: total blocks times the block size.
func (s *Source) Size() int64 {
	return s.byteSize
}

// Info returns the resolved session facts. Zero values before a
// successful Open.
func (s *Source) Info() SessionInfo {
	return SessionInfo{
		VolumeID:    s.volumeID,
		TitleCount:  s.titleCount,
		Title:       s.title,
		TitleSet:    s.titleSet,
		Chapters:    s.chapters,
		Cells:       s.cells,
		TotalBlocks: s.totalBlocks,
		ByteSize:    s.byteSize,
	}
}
