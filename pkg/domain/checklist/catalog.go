package checklist

// DefaultCatalogSize is the number of built-in tasks. CompletionStatus adds it
// to projected totals for dates that have not been materialized.
const DefaultCatalogSize = 7

// DefaultCatalog returns the built-in tasks used once to seed the recurring set.
func DefaultCatalog() []Task {
	return []Task{
		{
			ID:           1,
			Title:        "Fajr Salah",
			Description:  "Perform Fajr Salah and make Dua",
			HasChecklist: true,
			ChecklistItems: []ChecklistItem{
				{ID: "1-1", Text: "Perform 2 Sunnah rakats"},
				{ID: "1-2", Text: "Perform 2 Fard rakats"},
				{ID: "1-3", Text: "Make morning Dua"},
			},
		},
		{
			ID:           2,
			Title:        "Zikr",
			Description:  "Daily Zikr and Tasbih",
			HasChecklist: true,
			ChecklistItems: []ChecklistItem{
				{ID: "2-1", Text: "Subhanallah (100 times)"},
				{ID: "2-2", Text: "Alhamdulillah (100 times)"},
				{ID: "2-3", Text: "Allahu Akbar (100 times)"},
				{ID: "2-4", Text: "La ilaha illallah (100 times)"},
			},
		},
		{ID: 3, Title: "Quran Reading", Description: "Read 1 Juz of the Quran", ChecklistItems: []ChecklistItem{}},
		{ID: 4, Title: "Dua for Family", Description: "Make Dua for your family's well-being", ChecklistItems: []ChecklistItem{}},
		{
			ID:           5,
			Title:        "Iftar Preparation",
			Description:  "Help prepare the Iftar meal",
			HasChecklist: true,
			ChecklistItems: []ChecklistItem{
				{ID: "5-1", Text: "Prepare dates and water"},
				{ID: "5-2", Text: "Help with cooking"},
				{ID: "5-3", Text: "Set the table"},
			},
		},
		{ID: 6, Title: "Maghrib Salah", Description: "Perform Maghrib Salah and make Dua", ChecklistItems: []ChecklistItem{}},
		{ID: 7, Title: "Taraweeh", Description: "Pray Taraweeh after Iftar", ChecklistItems: []ChecklistItem{}},
	}
}

// Seed turns the default catalog into recurring templates created on start.
func Seed(start string) []Task {
	out := DefaultCatalog()
	for i := range out {
		out[i].CreatedAt = start
	}
	return out
}
