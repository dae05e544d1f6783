package pipeline

import (
	"bufio"
	"fmt"
	"os"
)

// DefaultReviewFile is the review file name, relative to the working
// directory.
const DefaultReviewFile = "NotMatched.txt"

// Stats accumulates the outcome of one run.
type Stats struct {
	Total     int
	Matched   int
	Unmatched int
	// Unsorted holds the name stems of unmatched tracks in processing order.
	Unsorted []string
	// CopyFailures counts copies that failed, including fallback copies.
	CopyFailures int
	// TagFailures counts tracks whose tag could not be read.
	TagFailures int
	Bytes       int64
	CratesRoot  string
	ReviewPath  string
}

func (s *Stats) addMatched(bytes int64) {
	s.Matched++
	s.Bytes += bytes
}

func (s *Stats) addUnmatched(stem string, bytes int64) {
	s.Unmatched++
	s.Unsorted = append(s.Unsorted, stem)
	s.Bytes += bytes
}

// WriteReview writes one stem per line to path, replacing any existing file.
// An empty list produces an empty file.
func WriteReview(path string, stems []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, stem := range stems {
		if _, err := fmt.Fprintln(w, stem); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
