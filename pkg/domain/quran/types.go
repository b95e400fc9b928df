// Package quran holds the reading-side model: surah metadata, reading
// positions, recently read history and the paginated reader session.
package quran

import (
	"context"
	"errors"
	"time"
)

// LastPage is the final page of the standard 604-page mushaf.
const LastPage = 604

var (
	// ErrSurahNotFound indicates a surah number outside 1..114.
	ErrSurahNotFound = errors.New("surah not found")

	// ErrInvalidPage indicates a page number below 1.
	ErrInvalidPage = errors.New("invalid page")

	// ErrStaleResult indicates a fetch finished after the session was reopened.
	ErrStaleResult = errors.New("stale page result")

	// ErrEndOfContent indicates there is nothing further to load in that direction.
	ErrEndOfContent = errors.New("end of content")

	// ErrNotOpen indicates a reader operation before Open.
	ErrNotOpen = errors.New("reader is not open")

	// ErrInvalidFontSize indicates a font size outside the allowed range.
	ErrInvalidFontSize = errors.New("font size out of range")
)

// Surah is catalog metadata for one chapter.
type Surah struct {
	Number         int    `json:"number"`
	NameArabic     string `json:"nameArabic"`
	Name           string `json:"name"`
	Translation    string `json:"translation"`
	Ayahs          int    `json:"numberOfAyahs"`
	RevelationType string `json:"revelationType"`
	Juz            int    `json:"juz"`
	StartPage      int    `json:"startPage"`
}

// PageRange is the inclusive span of pages a surah occupies.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Verse is one ayah as placed on a page.
type Verse struct {
	Number      int    `json:"number"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
	Surah       int    `json:"surah"`
	Juz         int    `json:"juz"`
	Page        int    `json:"page"`
}

// PageData is a single mushaf page.
type PageData struct {
	PageNumber int     `json:"pageNumber"`
	Verses     []Verse `json:"verses"`
	Surahs     []int   `json:"surahs"`
}

// Position is where the reader is.
type Position struct {
	Surah int `json:"surah"`
	Verse int `json:"verse"`
	Page  int `json:"page"`
	Juz   int `json:"juz"`
}

// Valid reports whether every field is set to a usable value.
func (p Position) Valid() bool {
	return p.Surah >= 1 && p.Surah <= 114 && p.Verse >= 1 && p.Page >= 1 && p.Page <= LastPage && p.Juz >= 1 && p.Juz <= 30
}

// StartPosition is the beginning of the mushaf.
func StartPosition() Position {
	return Position{Surah: 1, Verse: 1, Page: 1, Juz: 1}
}

// Source is the paginated content provider.
type Source interface {
	GetSurah(number int) (Surah, error)
	AllSurahs() []Surah
	GetPage(ctx context.Context, page int) (PageData, error)
	PageRange(surah int) PageRange
	PositionForPage(page int) Position
	PageForVerse(surah, verse int) int
	SearchSurahs(query string) []Surah
	JuzSurahs(juz int) []Surah
}

// Settings are reader display preferences.
type Settings struct {
	FontSize   int  `json:"fontSize"`
	DarkMode   bool `json:"darkMode"`
	ShowArabic bool `json:"showArabic"`
}

// Font size bounds and step used by the reader controls.
const (
	MinFontSize     = 14
	MaxFontSize     = 30
	DefaultFontSize = 18
	FontSizeStep    = 2
)

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() Settings {
	return Settings{FontSize: DefaultFontSize, ShowArabic: true}
}

// WithFontSize returns s with the size changed, rejecting values out of range.
func (s Settings) WithFontSize(size int) (Settings, error) {
	if size < MinFontSize || size > MaxFontSize {
		return s, ErrInvalidFontSize
	}
	s.FontSize = size
	return s, nil
}

// StepFontSize grows or shrinks the font by one step. Steps past either bound
// leave the size unchanged.
func (s Settings) StepFontSize(increase bool) Settings {
	size := s.FontSize - FontSizeStep
	if increase {
		size = s.FontSize + FontSizeStep
	}
	if next, err := s.WithFontSize(size); err == nil {
		return next
	}
	return s
}

// RecentRead is one entry of the reading history.
type RecentRead struct {
	ID              string    `json:"id"`
	Surah           int       `json:"surah"`
	Verse           int       `json:"verse"`
	Page            int       `json:"page"`
	Juz             int       `json:"juz"`
	Timestamp       time.Time `json:"timestamp"`
	SurahName       string    `json:"surahName"`
	SurahNameArabic string    `json:"surahNameArabic"`
}

// Position returns where the entry points.
func (r RecentRead) Position() Position {
	return Position{Surah: r.Surah, Verse: r.Verse, Page: r.Page, Juz: r.Juz}
}
