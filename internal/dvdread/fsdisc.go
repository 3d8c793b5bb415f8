package dvdread

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Open opens a mounted disc or extracted disc image rooted at path. The path
// may point at the directory containing VIDEO_TS or at VIDEO_TS itself.
func Open(path string) (Disc, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNotDVD)
	}

	root, err := resolveVideoTS(path)
	if err != nil {
		return nil, err
	}

	d := &fsDisc{root: root, volumeID: volumeIDFor(root)}
	if err := d.scan(); err != nil {
		return nil, err
	}
	return d, nil
}

type fsDisc struct {
	root     string
	volumeID string

	hasVolumeIFO bool
	sets         map[int]*titleSet
}

type titleSet struct {
	number int
	hasIFO bool
	parts  []vobPart
}

type vobPart struct {
	path string
	size int64
}

func resolveVideoTS(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotDVD, path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrNotDVD, path)
	}

	if strings.EqualFold(filepath.Base(path), "VIDEO_TS") {
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.EqualFold(entry.Name(), "VIDEO_TS") {
			return filepath.Join(path, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: no VIDEO_TS under %s", ErrNotDVD, path)
}

func volumeIDFor(videoTS string) string {
	parent := filepath.Dir(videoTS)
	base := filepath.Base(parent)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "DVD"
	}
	return base
}

func (d *fsDisc) scan() error {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return fmt.Errorf("read %s: %w", d.root, err)
	}

	d.sets = make(map[int]*titleSet)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.EqualFold(name, "VIDEO_TS.IFO") {
			d.hasVolumeIFO = true
			continue
		}

		set, part, ext, ok := parseVTSName(name)
		if !ok {
			continue
		}
		ts := d.sets[set]
		if ts == nil {
			ts = &titleSet{number: set}
			d.sets[set] = ts
		}
		switch ext {
		case "IFO":
			if part == 0 {
				ts.hasIFO = true
			}
		case "VOB":
			// Part 0 is the title-set menu; only title VOBs carry the stream.
			if part == 0 {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", name, err)
			}
			ts.parts = append(ts.parts, vobPart{
				path: filepath.Join(d.root, name),
				size: info.Size(),
			})
		}
	}

	for _, ts := range d.sets {
		sort.Slice(ts.parts, func(i, j int) bool { return ts.parts[i].path < ts.parts[j].path })
	}
	return nil
}

// parseVTSName splits names of the form VTS_NN_K.EXT.
func parseVTSName(name string) (set, part int, ext string, ok bool) {
	upper := strings.ToUpper(name)
	if !strings.HasPrefix(upper, "VTS_") {
		return 0, 0, "", false
	}
	dot := strings.LastIndexByte(upper, '.')
	if dot < 0 {
		return 0, 0, "", false
	}
	ext = upper[dot+1:]
	if ext != "IFO" && ext != "VOB" && ext != "BUP" {
		return 0, 0, "", false
	}

	fields := strings.Split(upper[4:dot], "_")
	if len(fields) != 2 {
		return 0, 0, "", false
	}
	set, err := strconv.Atoi(fields[0])
	if err != nil || set < 1 {
		return 0, 0, "", false
	}
	part, err = strconv.Atoi(fields[1])
	if err != nil || part < 0 {
		return 0, 0, "", false
	}
	return set, part, ext, true
}

func (d *fsDisc) OpenNavInfo(index int) (*NavInfo, error) {
	if index == VolumeNavIndex {
		return d.volumeNavInfo()
	}
	return d.titleSetNavInfo(index)
}

func (d *fsDisc) volumeNavInfo() (*NavInfo, error) {
	if !d.hasVolumeIFO {
		return nil, fmt.Errorf("%w: VIDEO_TS.IFO missing", ErrNoNavInfo)
	}

	numbers := make([]int, 0, len(d.sets))
	for n := range d.sets {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	table := &TitleTable{}
	for _, n := range numbers {
		table.Titles = append(table.Titles, TitleEntry{
			TitleSet: n,
			NavTitle: 1,
			Chapters: 1,
		})
	}

	return &NavInfo{
		VolumeMeta: &VolumeMeta{VolumeID: d.volumeID, TitleSets: len(numbers)},
		TitleTable: table,
		release:    func() error { return nil },
	}, nil
}

func (d *fsDisc) titleSetNavInfo(number int) (*NavInfo, error) {
	ts := d.sets[number]
	if ts == nil || !ts.hasIFO {
		return nil, fmt.Errorf("%w: title set %d", ErrNoNavInfo, number)
	}

	blocks := ts.blockCount()
	chain := &ProgramChain{
		Programs: 1,
		Cells:    []CellPlayback{{FirstSector: 0, LastSector: max(blocks-1, 0)}},
	}

	return &NavInfo{
		TitleSetMeta:  &TitleSetMeta{Number: number},
		ProgramChains: &ProgramChainTable{Chains: []*ProgramChain{chain}},
		TitlePointers: &TitlePointerTable{
			Titles: []TitlePointers{{Parts: []PartPointer{{ProgramChain: 1, Program: 1}}}},
		},
		release: func() error { return nil },
	}, nil
}

func (d *fsDisc) OpenTitleFile(number int) (File, error) {
	ts := d.sets[number]
	if ts == nil || len(ts.parts) == 0 {
		return nil, fmt.Errorf("%w: title set %d", ErrNoTitleFile, number)
	}

	file := &fsFile{}
	for _, part := range ts.parts {
		handle, err := os.Open(part.path)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("open %s: %w", part.path, err)
		}
		file.segments = append(file.segments, segment{handle: handle, size: part.size})
		file.totalBytes += part.size
	}
	return file, nil
}

func (d *fsDisc) Close() error {
	d.sets = nil
	return nil
}

func (ts *titleSet) blockCount() int64 {
	var total int64
	for _, part := range ts.parts {
		total += part.size
	}
	return total / BlockSize
}

// fsFile presents ordered VOB parts as one block-addressable stream.
type fsFile struct {
	segments   []segment
	totalBytes int64
}

type segment struct {
	handle *os.File
	size   int64
}

func (f *fsFile) BlockCount() int64 {
	return f.totalBytes / BlockSize
}

func (f *fsFile) ReadBlocks(offset int64, count int, p []byte) (int, error) {
	if offset < 0 || count < 0 {
		return 0, fmt.Errorf("read blocks: negative offset or count")
	}
	total := f.BlockCount()
	if offset >= total || count == 0 {
		return 0, nil
	}
	if remaining := total - offset; int64(count) > remaining {
		count = int(remaining)
	}
	want := count * BlockSize
	if len(p) < want {
		return 0, fmt.Errorf("read blocks: buffer holds %d bytes, need %d", len(p), want)
	}

	pos := offset * BlockSize
	filled := 0
	for filled < want {
		handle, local, ok := f.locate(pos)
		if !ok {
			break
		}
		n, err := handle.ReadAt(p[filled:want], local)
		filled += n
		pos += int64(n)
		if err != nil && err != io.EOF {
			return filled / BlockSize, fmt.Errorf("read vob: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return filled / BlockSize, nil
}

// locate maps an absolute byte position to the segment holding it.
func (f *fsFile) locate(pos int64) (*os.File, int64, bool) {
	for _, seg := range f.segments {
		if pos < seg.size {
			return seg.handle, pos, true
		}
		pos -= seg.size
	}
	return nil, 0, false
}

func (f *fsFile) Close() error {
	var first error
	for _, seg := range f.segments {
		if seg.handle == nil {
			continue
		}
		if err := seg.handle.Close(); err != nil && first == nil {
			first = err
		}
	}
	f.segments = nil
	return first
}
