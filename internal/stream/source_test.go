package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"dvdstream/internal/dvdread"
	"dvdstream/internal/logging"
)

// fakeDisc serves synthetic navigation structures so every open-time failure
// point can be induced and every release counted.
type fakeDisc struct {
	navErr      map[int]error
	mutateNav   func(index int, info *dvdread.NavInfo)
	fileErr     error
	blocks      int64
	readErr     error
	shortReadAt int64

	titleSets int

	closed        int
	navCloses     map[int]int
	fileCloses    int
	openNavCalls  []int
	openFileCalls []int
}

func newFakeDisc(blocks int64) *fakeDisc {
	return &fakeDisc{
		blocks:      blocks,
		titleSets:   1,
		shortReadAt: -1,
		navErr:      map[int]error{},
		navCloses:   map[int]int{},
	}
}

func (d *fakeDisc) OpenNavInfo(index int) (*dvdread.NavInfo, error) {
	d.openNavCalls = append(d.openNavCalls, index)
	if err := d.navErr[index]; err != nil {
		return nil, err
	}

	var info *dvdread.NavInfo
	if index == dvdread.VolumeNavIndex {
		table := &dvdread.TitleTable{}
		for set := 1; set <= d.titleSets; set++ {
			table.Titles = append(table.Titles, dvdread.TitleEntry{TitleSet: set, NavTitle: 1, Chapters: 1})
		}
		info = &dvdread.NavInfo{
			VolumeMeta: &dvdread.VolumeMeta{VolumeID: "FAKE_DISC", TitleSets: d.titleSets},
			TitleTable: table,
		}
	} else {
		info = &dvdread.NavInfo{
			TitleSetMeta: &dvdread.TitleSetMeta{Number: index},
			ProgramChains: &dvdread.ProgramChainTable{
				Chains: []*dvdread.ProgramChain{{
					Programs: 1,
					Cells:    []dvdread.CellPlayback{{FirstSector: 0, LastSector: d.blocks - 1}},
				}},
			},
			TitlePointers: &dvdread.TitlePointerTable{
				Titles: []dvdread.TitlePointers{{Parts: []dvdread.PartPointer{{ProgramChain: 1, Program: 1}}}},
			},
		}
	}
	if d.mutateNav != nil {
		d.mutateNav(index, info)
	}
	return withRelease(info, func() { d.navCloses[index]++ }), nil
}

func (d *fakeDisc) OpenTitleFile(titleSet int) (dvdread.File, error) {
	d.openFileCalls = append(d.openFileCalls, titleSet)
	if d.fileErr != nil {
		return nil, d.fileErr
	}
	return &fakeFile{disc: d}, nil
}

func (d *fakeDisc) Close() error {
	d.closed++
	return nil
}

type fakeFile struct {
	disc *fakeDisc
}

func (f *fakeFile) ReadBlocks(offset int64, count int, p []byte) (int, error) {
	if f.disc.readErr != nil {
		return 0, f.disc.readErr
	}
	if f.disc.shortReadAt >= 0 && offset >= f.disc.shortReadAt {
		return 0, nil
	}
	if offset >= f.disc.blocks {
		return 0, nil
	}
	for i := 0; i < dvdread.BlockSize; i++ {
		p[i] = byte(offset)
	}
	return 1, nil
}

func (f *fakeFile) BlockCount() int64 { return f.disc.blocks }

func (f *fakeFile) Close() error {
	f.disc.fileCloses++
	return nil
}

// withRelease arranges for Close to bump the matching release counter once.
func withRelease(info *dvdread.NavInfo, fn func()) *dvdread.NavInfo {
	info.SetRelease(func() error {
		fn()
		return nil
	})
	return info
}

func newSource(t *testing.T, disc *fakeDisc, opts Options) *Source {
	t.Helper()
	source := New(opts, logging.NewNop())
	source.openDisc = func(string) (dvdread.Disc, error) { return disc, nil }
	return source
}

func TestOpenResolvesSessionFacts(t *testing.T) {
	disc := newFakeDisc(500)
	source := newSource(t, disc, DefaultOptions())

	if err := source.Open("dvd:/discs/movie"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = source.Close() })

	info := source.Info()
	if info.Title != 1 {
		t.Errorf("Title = %d, want 1", info.Title)
	}
	if info.TitleSet != 1 {
		t.Errorf("TitleSet = %d, want 1", info.TitleSet)
	}
	if info.TotalBlocks != 500 {
		t.Errorf("TotalBlocks = %d, want 500", info.TotalBlocks)
	}
	if info.ByteSize != 500*BlockSize {
		t.Errorf("ByteSize = %d, want %d", info.ByteSize, 500*BlockSize)
	}
	if source.Size() != 1024000 {
		t.Errorf("Size() = %d, want 1024000", source.Size())
	}
	if info.VolumeID != "FAKE_DISC" {
		t.Errorf("VolumeID = %q, want FAKE_DISC", info.VolumeID)
	}
}

func TestOpenTwiceFails(t *testing.T) {
	source := newSource(t, newFakeDisc(10), DefaultOptions())
	if err := source.Open("x"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = source.Close() })

	if err := source.Open("x"); !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("second Open = %v, want ErrAlreadyOpen", err)
	}
}

func TestTitleCoercion(t *testing.T) {
	tests := []struct {
		requested int
		titles    int
		want      int
	}{
		{-1, 3, 1},
		{0, 3, 1},
		{-5, 3, 1},
		{5, 3, 1},
		{1, 3, 1},
		{2, 3, 2},
		{3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("requested=%d_titles=%d", tt.requested, tt.titles), func(t *testing.T) {
			disc := newFakeDisc(10)
			disc.titleSets = tt.titles
			source := newSource(t, disc, Options{Title: tt.requested})
			if err := source.Open("x"); err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer func() { _ = source.Close() }()

			if got := source.Info().Title; got != tt.want {
				t.Errorf("effective title = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadDeliversBlocksUntilEOF(t *testing.T) {
	const blocks = 500
	disc := newFakeDisc(blocks)
	source := newSource(t, disc, DefaultOptions())
	if err := source.Open("x"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = source.Close() })

	// The cursor is checked after the advance, so the read of the final
	// block index reports io.EOF instead of its payload: blocks-1 payload
	// reads, then EOF.
	buf := make([]byte, BlockSize)
	var delivered int
	for {
		n, err := source.Read(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Read %d: %v", delivered, err)
		}
		if n != BlockSize {
			t.Fatalf("Read %d returned %d bytes, want %d", delivered, n, BlockSize)
		}
		if !bytes.Equal(buf[:4], []byte{byte(delivered), byte(delivered), byte(delivered), byte(delivered)}) {
			t.Fatalf("Read %d returned wrong block payload", delivered)
		}
		delivered++
	}
	if delivered != blocks-1 {
		t.Errorf("delivered %d blocks before EOF, want %d", delivered, blocks-1)
	}

	// Exhausted sessions keep reporting EOF.
	for i := 0; i < 3; i++ {
		if _, err := source.Read(buf); !errors.Is(err, io.EOF) {
			t.Fatalf("post-EOF Read = %v, want io.EOF", err)
		}
	}
}

func TestReadZeroBlocksSignalsEOF(t *testing.T) {
	disc := newFakeDisc(100)
	disc.shortReadAt = 10
	source := newSource(t, disc, DefaultOptions())
	if err := source.Open("x"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = source.Close() })

	buf := make([]byte, BlockSize)
	for i := 0; i < 10; i++ {
		if _, err := source.Read(buf); err != nil {
			t.Fatalf("Read %d: %v", i, err)
		}
	}
	if _, err := source.Read(buf); !errors.Is(err, io.EOF) {
		t.Fatalf("Read after short read = %v, want io.EOF", err)
	}
}

func TestReadSmallBufferRejected(t *testing.T) {
	source := newSource(t, newFakeDisc(10), DefaultOptions())
	if err := source.Open("x"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = source.Close() })

	if _, err := source.Read(make([]byte, BlockSize-1)); err == nil {
		t.Fatal("expected error for undersized buffer")
	}
}

func TestReadNotOpen(t *testing.T) {
	disc := newFakeDisc(10)
	source := newSource(t, disc, DefaultOptions())

	if _, err := source.Read(make([]byte, BlockSize)); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Read on unopened source = %v, want ErrNotOpen", err)
	}
	if len(disc.openFileCalls) != 0 || len(disc.openNavCalls) != 0 {
		t.Error("unopened Read touched the disc backend")
	}

	if err := source.Open("x"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := source.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := source.Read(make([]byte, BlockSize)); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Read on closed source = %v, want ErrNotOpen", err)
	}
}

func TestSeekAlwaysUnsupported(t *testing.T) {
	source := newSource(t, newFakeDisc(10), DefaultOptions())
	if err := source.Open("x"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = source.Close() })

	buf := make([]byte, BlockSize)
	if _, err := source.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	cursorBefore := source.cursorBlock

	for _, whence := range []int{io.SeekStart, io.SeekCurrent, io.SeekEnd, 42} {
		if _, err := source.Seek(0, whence); !errors.Is(err, ErrSeekUnsupported) {
			t.Errorf("Seek whence=%d = %v, want ErrSeekUnsupported", whence, err)
		}
	}
	if source.cursorBlock != cursorBefore {
		t.Errorf("Seek moved the cursor from %d to %d", cursorBefore, source.cursorBlock)
	}
}

func TestSeekNotOpen(t *testing.T) {
	source := newSource(t, newFakeDisc(10), DefaultOptions())
	if _, err := source.Seek(0, io.SeekStart); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Seek on unopened source = %v, want ErrNotOpen", err)
	}
}

func TestCloseReleasesEveryHandleOnce(t *testing.T) {
	disc := newFakeDisc(10)
	source := newSource(t, disc, DefaultOptions())
	if err := source.Open("x"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := source.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := source.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if disc.closed != 1 {
		t.Errorf("disc closed %d times, want 1", disc.closed)
	}
	if disc.fileCloses != 1 {
		t.Errorf("file closed %d times, want 1", disc.fileCloses)
	}
	// One close for the probe, one for the retained volume info.
	if disc.navCloses[dvdread.VolumeNavIndex] != 2 {
		t.Errorf("volume nav closed %d times, want 2", disc.navCloses[dvdread.VolumeNavIndex])
	}
	if disc.navCloses[1] != 1 {
		t.Errorf("title set nav closed %d times, want 1", disc.navCloses[1])
	}
}

func TestOpenFailuresReleaseAcquiredHandles(t *testing.T) {
	structureErr := errors.New("backend failure")

	tests := []struct {
		name     string
		mutate   func(*fakeDisc)
		wantKind error
	}{
		{
			name:     "probe fails",
			mutate:   func(d *fakeDisc) { d.navErr[0] = structureErr },
			wantKind: ErrDiscOpen,
		},
		{
			name: "volume meta missing",
			mutate: func(d *fakeDisc) {
				d.mutateNav = func(index int, info *dvdread.NavInfo) {
					if index == 0 {
						info.VolumeMeta = nil
					}
				}
			},
			wantKind: ErrDiscStructure,
		},
		{
			name: "title table missing",
			mutate: func(d *fakeDisc) {
				d.mutateNav = func(index int, info *dvdread.NavInfo) {
					if index == 0 {
						info.TitleTable = nil
					}
				}
			},
			wantKind: ErrDiscStructure,
		},
		{
			name: "zero titles",
			mutate: func(d *fakeDisc) {
				d.mutateNav = func(index int, info *dvdread.NavInfo) {
					if index == 0 {
						info.TitleTable = &dvdread.TitleTable{}
					}
				}
			},
			wantKind: ErrDiscStructure,
		},
		{
			name:     "title set info fails",
			mutate:   func(d *fakeDisc) { d.navErr[1] = structureErr },
			wantKind: ErrDiscStructure,
		},
		{
			name: "title set meta missing",
			mutate: func(d *fakeDisc) {
				d.mutateNav = func(index int, info *dvdread.NavInfo) {
					if index == 1 {
						info.TitleSetMeta = nil
					}
				}
			},
			wantKind: ErrDiscStructure,
		},
		{
			name: "empty program chain table",
			mutate: func(d *fakeDisc) {
				d.mutateNav = func(index int, info *dvdread.NavInfo) {
					if index == 1 {
						info.ProgramChains = &dvdread.ProgramChainTable{}
					}
				}
			},
			wantKind: ErrDiscStructure,
		},
		{
			name: "empty title pointer table",
			mutate: func(d *fakeDisc) {
				d.mutateNav = func(index int, info *dvdread.NavInfo) {
					if index == 1 {
						info.TitlePointers = &dvdread.TitlePointerTable{}
					}
				}
			},
			wantKind: ErrDiscStructure,
		},
		{
			name:     "title file fails",
			mutate:   func(d *fakeDisc) { d.fileErr = structureErr },
			wantKind: ErrDiscOpen,
		},
		{
			name: "program chain pointer out of range",
			mutate: func(d *fakeDisc) {
				d.mutateNav = func(index int, info *dvdread.NavInfo) {
					if index == 1 {
						info.TitlePointers.Titles[0].Parts[0].ProgramChain = 7
					}
				}
			},
			wantKind: ErrDiscStructure,
		},
		{
			name: "cell playback table missing",
			mutate: func(d *fakeDisc) {
				d.mutateNav = func(index int, info *dvdread.NavInfo) {
					if index == 1 {
						info.ProgramChains.Chains[0].Cells = nil
					}
				}
			},
			wantKind: ErrDiscStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disc := newFakeDisc(10)
			tt.mutate(disc)
			source := newSource(t, disc, DefaultOptions())

			err := source.Open("x")
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("Open = %v, want %v", err, tt.wantKind)
			}

			if disc.closed != 1 {
				t.Errorf("disc closed %d times after failed open, want 1", disc.closed)
			}
			for index, closes := range disc.navCloses {
				opens := 0
				for _, call := range disc.openNavCalls {
					if call == index && disc.navErr[index] == nil {
						opens++
					}
				}
				if closes != opens {
					t.Errorf("nav info %d: %d opens, %d closes", index, opens, closes)
				}
			}
			if len(disc.openFileCalls) > 0 && disc.fileErr == nil && disc.fileCloses != 1 {
				t.Errorf("file closed %d times after failed open, want 1", disc.fileCloses)
			}

			// Close after a failed open must not double-release anything.
			if err := source.Close(); err != nil {
				t.Fatalf("Close after failed open: %v", err)
			}
			if disc.closed != 1 {
				t.Errorf("disc closed %d times after Close, want 1", disc.closed)
			}
		})
	}
}

func TestOpenDiscFailure(t *testing.T) {
	source := New(DefaultOptions(), logging.NewNop())
	source.openDisc = func(string) (dvdread.Disc, error) {
		return nil, errors.New("no medium")
	}
	if err := source.Open("dvd:/dev/sr0"); !errors.Is(err, ErrDiscOpen) {
		t.Fatalf("Open = %v, want ErrDiscOpen", err)
	}
}
