package tags

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Read reads tag metadata from a music file.
//
// dhowden/tag is tried first. It has issues with some UTF-16 encoded ID3
// tags, so on failure the file is re-read with bogem/id3v2, and finally with
// TagLib for layouts neither pure-Go reader understands (ID3v2.2, APE).
// An error is returned only when no reader could make sense of the file.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		t, fallbackErr := readMP3WithID3v2Fallback(path)
		if fallbackErr == nil {
			return t, nil
		}
		t, taglibErr := readWithTaglib(path)
		if taglibErr == nil {
			return t, nil
		}
		return nil, fmt.Errorf("read tags: %w", err)
	}

	return &Tag{
		Path:   path,
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Genre:  m.Genre(),
	}, nil
}

// readWithTaglib reads metadata using TagLib as a last resort.
func readWithTaglib(path string) (*Tag, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := taglibTags(rawTags)

	return &Tag{
		Path:   path,
		Title:  tags.get(taglib.Title),
		Artist: tags.get(taglib.Artist),
		Album:  tags.get(taglib.Album),
		Genre:  tags.get(taglib.Genre),
	}, nil
}
