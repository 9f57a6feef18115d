package evaluation

import (
	"math"
	"regexp"
	"strconv"
)

var (
	yearsPattern  = regexp.MustCompile(`(?i)(\d+)\s*years?`)
	monthsPattern = regexp.MustCompile(`(?i)(\d+)\s*months?`)
	linkPattern   = regexp.MustCompile(`https?://[^\s]+`)
)

// TotalExperienceYears sums the first "N year(s)" and "N month(s)" token of
// every duration and rounds the result half-up to one decimal. Durations
// without tokens contribute zero.
func TotalExperienceYears(entries []WorkExperience) float64 {
	var total float64
	for _, entry := range entries {
		total += float64(firstInt(yearsPattern, entry.Duration))
		total += float64(firstInt(monthsPattern, entry.Duration)) / 12
	}

	return roundOneDecimal(total)
}

func firstInt(pattern *regexp.Regexp, value string) int {
	match := pattern.FindStringSubmatch(value)
	if len(match) < 2 {
		return 0
	}
	parsed, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return parsed
}

// ExtractLinks returns the distinct http(s) URLs in text, in order of appearance.
func ExtractLinks(text string) []string {
	matches := linkPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	links := make([]string, 0, len(matches))
	for _, link := range matches {
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}

func roundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5)
}

func roundOneDecimal(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}
