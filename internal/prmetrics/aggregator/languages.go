package aggregator

import "github.com/BhargavGarge/devpulse/internal/prmetrics/model"

// UnknownLanguage is reported as primary language when the host returned no bytes of code.
const UnknownLanguage = "Unknown"

// languageDistribution picks the max-byte language and computes the fragmentation score.
// Ties resolve to the lexicographically smallest name; zero-byte entries never become
// primary. The second value is the unrounded fragmentation.
func languageDistribution(languages map[string]int64) (*model.LanguageDistribution, float64) {
	dist := &model.LanguageDistribution{
		Languages:       make(map[string]int64, len(languages)),
		PrimaryLanguage: UnknownLanguage,
	}

	var total, maxBytes int64
	for name, bytes := range languages {
		dist.Languages[name] = bytes
		if bytes <= 0 {
			continue
		}
		total += bytes
		if bytes > maxBytes || (bytes == maxBytes && name < dist.PrimaryLanguage) {
			dist.PrimaryLanguage = name
			maxBytes = bytes
		}
	}

	if total == 0 {
		return dist, 0
	}
	fragmentation := 1 - float64(maxBytes)/float64(total)
	dist.FragmentationScore = roundTo(fragmentation, 2)
	return dist, fragmentation
}
