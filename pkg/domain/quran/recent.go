package quran

// MaxRecent is how many history entries are kept.
const MaxRecent = 3

// PushRecent puts entry first, drops older entries for the same surah and
// page, and trims the list to MaxRecent.
func PushRecent(list []RecentRead, entry RecentRead) []RecentRead {
	out := make([]RecentRead, 0, MaxRecent)
	out = append(out, entry)
	for _, r := range list {
		if len(out) == MaxRecent {
			break
		}
		if r.Surah == entry.Surah && r.Page == entry.Page {
			continue
		}
		out = append(out, r)
	}
	return out
}
