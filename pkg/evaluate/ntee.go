package evaluate

import "sort"

// nteeSectorNames maps the first letter of an NTEE code to its broad sector.
var nteeSectorNames = map[string]string{
	"A": "Arts & Culture",
	"B": "Education",
	"C": "Environment",
	"D": "Animal-Related",
	"E": "Health",
	"F": "Mental Health",
	"G": "Disease/Disorders",
	"H": "Medical Research",
	"I": "Crime & Legal",
	"J": "Employment",
	"K": "Food & Agriculture",
	"L": "Housing & Shelter",
	"M": "Public Safety",
	"N": "Recreation & Sports",
	"O": "Youth Development",
	"P": "Human Services",
	"Q": "International",
	"R": "Civil Rights",
	"S": "Community Improvement",
	"T": "Philanthropy",
	"U": "Science & Technology",
	"V": "Social Science",
	"W": "Public Benefit",
	"X": "Religion",
	"Y": "Mutual Benefit",
	"Z": "Unknown",
}

// SectorName returns the broad sector designated by an NTEE code's first
// letter, or "Unknown" for an empty or unmapped code.
func SectorName(nteeCode string) string {
	if nteeCode == "" {
		return "Unknown"
	}
	if name, ok := nteeSectorNames[nteeCode[:1]]; ok {
		return name
	}
	return "Unknown"
}

// SectorLetters returns the known NTEE sector letters in alphabetical order.
func SectorLetters() []string {
	letters := make([]string, 0, len(nteeSectorNames))
	for letter := range nteeSectorNames {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}

// sectorLetter returns the sector letter of an NTEE code, or "" if absent.
func sectorLetter(nteeCode string) string {
	if nteeCode == "" {
		return ""
	}
	return nteeCode[:1]
}
