package quran

import "github.com/felixgeelhaar/hilal/pkg/domain/quran"

const (
	meccan  = "Meccan"
	medinan = "Medinan"
)

// Surah metadata on the 604-page Madinah mushaf. Juz is the part in which the
// surah begins.
var catalog = []quran.Surah{
	surah(1, "الفاتحة", "Al-Fatihah", "The Opening", 7, meccan, 1, 1),
	surah(2, "البقرة", "Al-Baqarah", "The Cow", 286, medinan, 1, 2),
	surah(3, "آل عمران", "Ali 'Imran", "Family of Imran", 200, medinan, 3, 50),
	surah(4, "النساء", "An-Nisa", "The Women", 176, medinan, 4, 77),
	surah(5, "المائدة", "Al-Ma'idah", "The Table Spread", 120, medinan, 6, 106),
	surah(6, "الأنعام", "Al-An'am", "The Cattle", 165, meccan, 7, 128),
	surah(7, "الأعراف", "Al-A'raf", "The Heights", 206, meccan, 8, 151),
	surah(8, "الأنفال", "Al-Anfal", "The Spoils of War", 75, medinan, 9, 177),
	surah(9, "التوبة", "At-Tawbah", "The Repentance", 129, medinan, 10, 187),
	surah(10, "يونس", "Yunus", "Jonah", 109, meccan, 11, 208),
	surah(11, "هود", "Hud", "Hud", 123, meccan, 11, 221),
	surah(12, "يوسف", "Yusuf", "Joseph", 111, meccan, 12, 235),
	surah(13, "الرعد", "Ar-Ra'd", "The Thunder", 43, medinan, 13, 249),
	surah(14, "ابراهيم", "Ibrahim", "Abraham", 52, meccan, 13, 255),
	surah(15, "الحجر", "Al-Hijr", "The Rocky Tract", 99, meccan, 14, 262),
	surah(16, "النحل", "An-Nahl", "The Bee", 128, meccan, 14, 267),
	surah(17, "الإسراء", "Al-Isra", "The Night Journey", 111, meccan, 15, 282),
	surah(18, "الكهف", "Al-Kahf", "The Cave", 110, meccan, 15, 293),
	surah(19, "مريم", "Maryam", "Mary", 98, meccan, 16, 305),
	surah(20, "طه", "Taha", "Ta-Ha", 135, meccan, 16, 312),
	surah(21, "الأنبياء", "Al-Anbya", "The Prophets", 112, meccan, 17, 322),
	surah(22, "الحج", "Al-Hajj", "The Pilgrimage", 78, medinan, 17, 332),
	surah(23, "المؤمنون", "Al-Mu'minun", "The Believers", 118, meccan, 18, 342),
	surah(24, "النور", "An-Nur", "The Light", 64, medinan, 18, 350),
	surah(25, "الفرقان", "Al-Furqan", "The Criterion", 77, meccan, 18, 359),
	surah(26, "الشعراء", "Ash-Shu'ara", "The Poets", 227, meccan, 19, 367),
	surah(27, "النمل", "An-Naml", "The Ant", 93, meccan, 19, 377),
	surah(28, "القصص", "Al-Qasas", "The Stories", 88, meccan, 20, 385),
	surah(29, "العنكبوت", "Al-'Ankabut", "The Spider", 69, meccan, 20, 396),
	surah(30, "الروم", "Ar-Rum", "The Romans", 60, meccan, 21, 404),
	surah(31, "لقمان", "Luqman", "Luqman", 34, meccan, 21, 411),
	surah(32, "السجدة", "As-Sajdah", "The Prostration", 30, meccan, 21, 415),
	surah(33, "الأحزاب", "Al-Ahzab", "The Combined Forces", 73, medinan, 21, 418),
	surah(34, "سبإ", "Saba", "Sheba", 54, meccan, 22, 428),
	surah(35, "فاطر", "Fatir", "Originator", 45, meccan, 22, 434),
	surah(36, "يس", "Ya-Sin", "Ya Sin", 83, meccan, 22, 440),
	surah(37, "الصافات", "As-Saffat", "Those who set the Ranks", 182, meccan, 23, 446),
	surah(38, "ص", "Sad", "The Letter Sad", 88, meccan, 23, 453),
	surah(39, "الزمر", "Az-Zumar", "The Troops", 75, meccan, 23, 458),
	surah(40, "غافر", "Ghafir", "The Forgiver", 85, meccan, 24, 467),
	surah(41, "فصلت", "Fussilat", "Explained in Detail", 54, meccan, 24, 477),
	surah(42, "الشورى", "Ash-Shuraa", "The Consultation", 53, meccan, 25, 483),
	surah(43, "الزخرف", "Az-Zukhruf", "The Ornaments of Gold", 89, meccan, 25, 489),
	surah(44, "الدخان", "Ad-Dukhan", "The Smoke", 59, meccan, 25, 496),
	surah(45, "الجاثية", "Al-Jathiyah", "The Crouching", 37, meccan, 25, 499),
	surah(46, "الأحقاف", "Al-Ahqaf", "The Wind-Curved Sandhills", 35, meccan, 26, 502),
	surah(47, "محمد", "Muhammad", "Muhammad", 38, medinan, 26, 507),
	surah(48, "الفتح", "Al-Fath", "The Victory", 29, medinan, 26, 511),
	surah(49, "الحجرات", "Al-Hujurat", "The Rooms", 18, medinan, 26, 515),
	surah(50, "ق", "Qaf", "The Letter Qaf", 45, meccan, 26, 518),
	surah(51, "الذاريات", "Adh-Dhariyat", "The Winnowing Winds", 60, meccan, 26, 520),
	surah(52, "الطور", "At-Tur", "The Mount", 49, meccan, 27, 523),
	surah(53, "النجم", "An-Najm", "The Star", 62, meccan, 27, 526),
	surah(54, "القمر", "Al-Qamar", "The Moon", 55, meccan, 27, 528),
	surah(55, "الرحمن", "Ar-Rahman", "The Beneficent", 78, medinan, 27, 531),
	surah(56, "الواقعة", "Al-Waqi'ah", "The Inevitable", 96, meccan, 27, 534),
	surah(57, "الحديد", "Al-Hadid", "The Iron", 29, medinan, 27, 537),
	surah(58, "المجادلة", "Al-Mujadila", "The Pleading Woman", 22, medinan, 28, 542),
	surah(59, "الحشر", "Al-Hashr", "The Exile", 24, medinan, 28, 545),
	surah(60, "الممتحنة", "Al-Mumtahanah", "She that is to be examined", 13, medinan, 28, 549),
	surah(61, "الصف", "As-Saf", "The Ranks", 14, medinan, 28, 551),
	surah(62, "الجمعة", "Al-Jumu'ah", "The Congregation, Friday", 11, medinan, 28, 553),
	surah(63, "المنافقون", "Al-Munafiqun", "The Hypocrites", 11, medinan, 28, 554),
	surah(64, "التغابن", "At-Taghabun", "The Mutual Disillusion", 18, medinan, 28, 556),
	surah(65, "الطلاق", "At-Talaq", "The Divorce", 12, medinan, 28, 558),
	surah(66, "التحريم", "At-Tahrim", "The Prohibition", 12, medinan, 28, 560),
	surah(67, "الملك", "Al-Mulk", "The Sovereignty", 30, meccan, 29, 562),
	surah(68, "القلم", "Al-Qalam", "The Pen", 52, meccan, 29, 564),
	surah(69, "الحاقة", "Al-Haqqah", "The Reality", 52, meccan, 29, 566),
	surah(70, "المعارج", "Al-Ma'arij", "The Ascending Stairways", 44, meccan, 29, 568),
	surah(71, "نوح", "Nuh", "Noah", 28, meccan, 29, 570),
	surah(72, "الجن", "Al-Jinn", "The Jinn", 28, meccan, 29, 572),
	surah(73, "المزمل", "Al-Muzzammil", "The Enshrouded One", 20, meccan, 29, 574),
	surah(74, "المدثر", "Al-Muddaththir", "The Cloaked One", 56, meccan, 29, 575),
	surah(75, "القيامة", "Al-Qiyamah", "The Resurrection", 40, meccan, 29, 577),
	surah(76, "الانسان", "Al-Insan", "The Man", 31, medinan, 29, 578),
	surah(77, "المرسلات", "Al-Mursalat", "The Emissaries", 50, meccan, 29, 580),
	surah(78, "النبإ", "An-Naba", "The Tidings", 40, meccan, 30, 582),
	surah(79, "النازعات", "An-Nazi'at", "Those who drag forth", 46, meccan, 30, 583),
	surah(80, "عبس", "'Abasa", "He Frowned", 42, meccan, 30, 585),
	surah(81, "التكوير", "At-Takwir", "The Overthrowing", 29, meccan, 30, 586),
	surah(82, "الإنفطار", "Al-Infitar", "The Cleaving", 19, meccan, 30, 587),
	surah(83, "المطففين", "Al-Mutaffifin", "The Defrauding", 36, meccan, 30, 587),
	surah(84, "الإنشقاق", "Al-Inshiqaq", "The Sundering", 25, meccan, 30, 589),
	surah(85, "البروج", "Al-Buruj", "The Mansions of the Stars", 22, meccan, 30, 590),
	surah(86, "الطارق", "At-Tariq", "The Nightcommer", 17, meccan, 30, 591),
	surah(87, "الأعلى", "Al-A'la", "The Most High", 19, meccan, 30, 591),
	surah(88, "الغاشية", "Al-Ghashiyah", "The Overwhelming", 26, meccan, 30, 592),
	surah(89, "الفجر", "Al-Fajr", "The Dawn", 30, meccan, 30, 593),
	surah(90, "البلد", "Al-Balad", "The City", 20, meccan, 30, 594),
	surah(91, "الشمس", "Ash-Shams", "The Sun", 15, meccan, 30, 595),
	surah(92, "الليل", "Al-Layl", "The Night", 21, meccan, 30, 595),
	surah(93, "الضحى", "Ad-Duhaa", "The Morning Hours", 11, meccan, 30, 596),
	surah(94, "الشرح", "Ash-Sharh", "The Relief", 8, meccan, 30, 596),
	surah(95, "التين", "At-Tin", "The Fig", 8, meccan, 30, 597),
	surah(96, "العلق", "Al-'Alaq", "The Clot", 19, meccan, 30, 597),
	surah(97, "القدر", "Al-Qadr", "The Power", 5, meccan, 30, 598),
	surah(98, "البينة", "Al-Bayyinah", "The Clear Proof", 8, medinan, 30, 598),
	surah(99, "الزلزلة", "Az-Zalzalah", "The Earthquake", 8, medinan, 30, 599),
	surah(100, "العاديات", "Al-'Adiyat", "The Courser", 11, meccan, 30, 599),
	surah(101, "القارعة", "Al-Qari'ah", "The Calamity", 11, meccan, 30, 600),
	surah(102, "التكاثر", "At-Takathur", "The Rivalry in world increase", 8, meccan, 30, 600),
	surah(103, "العصر", "Al-'Asr", "The Declining Day", 3, meccan, 30, 601),
	surah(104, "الهمزة", "Al-Humazah", "The Traducer", 9, meccan, 30, 601),
	surah(105, "الفيل", "Al-Fil", "The Elephant", 5, meccan, 30, 601),
	surah(106, "قريش", "Quraysh", "Quraysh", 4, meccan, 30, 602),
	surah(107, "الماعون", "Al-Ma'un", "The Small kindnesses", 7, meccan, 30, 602),
	surah(108, "الكوثر", "Al-Kawthar", "The Abundance", 3, meccan, 30, 602),
	surah(109, "الكافرون", "Al-Kafirun", "The Disbelievers", 6, meccan, 30, 603),
	surah(110, "النصر", "An-Nasr", "The Divine Support", 3, medinan, 30, 603),
	surah(111, "المسد", "Al-Masad", "The Palm Fiber", 5, meccan, 30, 603),
	surah(112, "الإخلاص", "Al-Ikhlas", "The Sincerity", 4, meccan, 30, 604),
	surah(113, "الفلق", "Al-Falaq", "The Daybreak", 5, meccan, 30, 604),
	surah(114, "الناس", "An-Nas", "Mankind", 6, meccan, 30, 604),
}

func surah(n int, arabic, name, translation string, ayahs int, revelation string, juz, startPage int) quran.Surah {
	return quran.Surah{
		Number:         n,
		NameArabic:     arabic,
		Name:           name,
		Translation:    translation,
		Ayahs:          ayahs,
		RevelationType: revelation,
		Juz:            juz,
		StartPage:      startPage,
	}
}

// pageRanges is derived from catalog: a surah ends on the page before the
// next one starts, or on its start page when the two share a page.
var pageRanges = buildPageRanges()

func buildPageRanges() map[int]quran.PageRange {
	out := make(map[int]quran.PageRange, len(catalog))
	for i, s := range catalog {
		end := quran.LastPage
		if i+1 < len(catalog) {
			end = catalog[i+1].StartPage - 1
		}
		if end < s.StartPage {
			end = s.StartPage
		}
		out[s.Number] = quran.PageRange{Start: s.StartPage, End: end}
	}
	return out
}
