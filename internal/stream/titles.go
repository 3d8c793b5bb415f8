package stream

import (
	"fmt"

	"dvdstream/internal/dvdread"
)

// TitleInfo summarizes one selectable title for listings.
type TitleInfo struct {
	Number   int
	TitleSet int
	Chapters int
	Blocks   int64
	Bytes    int64
}

// ListTitles opens the locator just long enough to enumerate its titles and
// their title-set sizes. Title sets without a readable video object file are
// listed with zero blocks rather than dropped.
func ListTitles(locator string) (volumeID string, titles []TitleInfo, err error) {
	path := TrimScheme(locator)

	disc, err := dvdread.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %w", ErrDiscOpen, path, err)
	}
	defer func() { _ = disc.Close() }()

	volumeInfo, err := disc.OpenNavInfo(dvdread.VolumeNavIndex)
	if err != nil {
		return "", nil, fmt.Errorf("%w: volume info: %w", ErrDiscStructure, err)
	}
	defer func() { _ = volumeInfo.Close() }()

	if volumeInfo.VolumeMeta == nil || volumeInfo.TitleTable == nil {
		return "", nil, fmt.Errorf("%w: volume info incomplete", ErrDiscStructure)
	}

	volumeID = volumeInfo.VolumeMeta.VolumeID
	for i, entry := range volumeInfo.TitleTable.Titles {
		info := TitleInfo{
			Number:   i + 1,
			TitleSet: entry.TitleSet,
			Chapters: entry.Chapters,
		}
		if file, ferr := disc.OpenTitleFile(entry.TitleSet); ferr == nil {
			info.Blocks = file.BlockCount()
			info.Bytes = info.Blocks * BlockSize
			_ = file.Close()
		}
		titles = append(titles, info)
	}
	return volumeID, titles, nil
}
