// Package quran provides the built-in surah catalog and a page source that
// lays placeholder verses onto the 604-page mushaf.
package quran

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain/quran"
	"golang.org/x/text/cases"
)

// VersesPerPage is how many placeholder verses a surah contributes to a page.
const VersesPerPage = 3

// DefaultPageDelay stands in for a remote fetch.
const DefaultPageDelay = 200 * time.Millisecond

// StaticProvider serves the embedded catalog and generated pages.
type StaticProvider struct {
	delay time.Duration
}

// NewStaticProvider returns a provider that waits delay before returning a page.
func NewStaticProvider(delay time.Duration) *StaticProvider {
	return &StaticProvider{delay: delay}
}

var _ quran.Source = (*StaticProvider)(nil)

// AllSurahs returns a copy of the catalog.
func (p *StaticProvider) AllSurahs() []quran.Surah {
	out := make([]quran.Surah, len(catalog))
	copy(out, catalog)
	return out
}

// GetSurah looks up a surah by number.
func (p *StaticProvider) GetSurah(number int) (quran.Surah, error) {
	if number < 1 || number > len(catalog) {
		return quran.Surah{}, fmt.Errorf("%w: %d", quran.ErrSurahNotFound, number)
	}
	return catalog[number-1], nil
}

// PageRange returns the pages a surah spans, or {1, 1} for an unknown surah.
func (p *StaticProvider) PageRange(surah int) quran.PageRange {
	if r, ok := pageRanges[surah]; ok {
		return r
	}
	return quran.PageRange{Start: 1, End: 1}
}

// NextPage returns the page after page.
func NextPage(page int) int {
	return page + 1
}

// PreviousPage returns the page before page, never less than 1.
func PreviousPage(page int) int {
	if page <= 1 {
		return 1
	}
	return page - 1
}

// GetPage builds the page after the configured delay.
func (p *StaticProvider) GetPage(ctx context.Context, page int) (quran.PageData, error) {
	if page < 1 {
		return quran.PageData{}, fmt.Errorf("%w: %d", quran.ErrInvalidPage, page)
	}
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return quran.PageData{}, ctx.Err()
		case <-timer.C:
		}
	}
	return buildPage(page), nil
}

func surahsOnPage(page int) []int {
	var out []int
	for _, s := range catalog {
		r := pageRanges[s.Number]
		if page >= r.Start && page <= r.End {
			out = append(out, s.Number)
		}
	}
	if len(out) > 0 {
		return out
	}

	closest, best := 1, math.MaxInt
	for _, s := range catalog {
		r := pageRanges[s.Number]
		d := min(abs(page-r.Start), abs(page-r.End))
		if d < best {
			best, closest = d, s.Number
		}
	}
	return []int{closest}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func buildPage(page int) quran.PageData {
	data := quran.PageData{PageNumber: page, Verses: []quran.Verse{}, Surahs: surahsOnPage(page)}
	for _, n := range data.Surahs {
		s := catalog[n-1]
		first := (page-pageRanges[n].Start)*VersesPerPage + 1
		for v := first; v < first+VersesPerPage; v++ {
			if v < 1 || v > s.Ayahs {
				continue
			}
			data.Verses = append(data.Verses, quran.Verse{
				Number:      v,
				Text:        fmt.Sprintf("سورة %d - آية %d", n, v),
				Translation: fmt.Sprintf("Verse %d of Surah %s on page %d.", v, s.Name, page),
				Surah:       n,
				Juz:         s.Juz,
				Page:        page,
			})
		}
	}
	return data
}

// PositionForPage estimates the surah, verse and juz at the top of page.
// Pages outside every range resolve to the opening of the mushaf.
func (p *StaticProvider) PositionForPage(page int) quran.Position {
	pos := quran.Position{Surah: 1, Verse: 1, Page: page, Juz: 1}
	for _, s := range catalog {
		r := pageRanges[s.Number]
		if page < r.Start || page > r.End {
			continue
		}
		pos.Surah = s.Number
		if page > r.Start {
			perPage := int(math.Ceil(float64(s.Ayahs) / float64(r.End-r.Start+1)))
			pos.Verse = max(1, (page-r.Start)*perPage+1)
		}
		break
	}
	pos.Juz = catalog[pos.Surah-1].Juz
	return pos
}

// PageForVerse estimates the page holding a verse. Unknown surahs map to page 1.
func (p *StaticProvider) PageForVerse(surah, verse int) int {
	s, err := p.GetSurah(surah)
	if err != nil {
		return 1
	}
	r := p.PageRange(surah)
	if verse <= 1 {
		return r.Start
	}
	perPage := int(math.Ceil(float64(s.Ayahs) / float64(r.End-r.Start+1)))
	return min(r.End, r.Start+(verse-1)/perPage)
}

// SearchSurahs matches the query against name, translation and number,
// ignoring case. An empty query returns every surah.
func (p *StaticProvider) SearchSurahs(query string) []quran.Surah {
	folder := cases.Fold()
	q := folder.String(strings.TrimSpace(query))
	if q == "" {
		return p.AllSurahs()
	}
	var out []quran.Surah
	for _, s := range catalog {
		if strings.Contains(folder.String(s.Name), q) ||
			strings.Contains(folder.String(s.Translation), q) ||
			strings.Contains(strconv.Itoa(s.Number), q) {
			out = append(out, s)
		}
	}
	return out
}

// JuzSurahs returns the surahs that begin in juz.
func (p *StaticProvider) JuzSurahs(juz int) []quran.Surah {
	var out []quran.Surah
	for _, s := range catalog {
		if s.Juz == juz {
			out = append(out, s)
		}
	}
	return out
}
