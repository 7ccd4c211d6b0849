package advice

import (
	"fmt"
	"strings"
)

// Section-header markers the narrative response is split on, in order. The
// last two are prefixes: models vary the tail wording ("Important Signs to
// Monitor", "Daily Wellness Tips").
const (
	markerRiskFactors  = "Risk Factors"
	markerDiet         = "Dietary Recommendations"
	markerExercise     = "Exercise Guidelines"
	markerWarningSigns = "Important Signs"
	markerWellness     = "Daily Wellness"
)

// padTips are appended when the wellness section yields fewer than
// WellnessTipCount substantive lines.
var padTips = []string{
	"Maintain regular health check-ups",
	"Practice stress management through meditation or deep breathing",
	"Ensure adequate sleep and rest",
}

// minTipLength filters wellness lines down to substantive ones.
const minTipLength = 10

// extractSections is the lenient phase: it pulls whatever it can find out of
// the free-text response and never fails. The caller decides acceptance with
// the complete() gate; a missing or placeholder section survives extraction
// as its zero form so the gate can reject the bundle as a whole.
func extractSections(text string) Sections {
	wellnessRaw := extractBetween(text, markerWellness, "")

	var tips []string
	if wellnessRaw != "" {
		tips = wellnessTips(wellnessRaw)
	}

	return Sections{
		RiskFactors:  formatSection(extractBetween(text, markerRiskFactors, markerDiet)),
		Diet:         formatSection(extractBetween(text, markerDiet, markerExercise)),
		Exercise:     formatSection(extractBetween(text, markerExercise, markerWarningSigns)),
		WarningSigns: formatSection(extractBetween(text, markerWarningSigns, markerWellness)),
		WellnessTips: tips,
	}
}

// extractBetween returns the text between the line containing startMarker
// and the next occurrence of endMarker. An empty endMarker means to
// end-of-text. A missing start marker yields "".
func extractBetween(text, startMarker, endMarker string) string {
	lower := strings.ToLower(text)
	start := strings.Index(lower, strings.ToLower(startMarker))
	if start < 0 {
		return ""
	}

	// Skip past the marker's own line so the header is not part of the
	// section body.
	contentStart := strings.IndexByte(text[start:], '\n')
	if contentStart < 0 {
		contentStart = start + len(startMarker)
	} else {
		contentStart += start + 1
	}

	end := len(text)
	if endMarker != "" {
		if i := strings.Index(lower[contentStart:], strings.ToLower(endMarker)); i >= 0 {
			end = contentStart + i
		}
	}

	return strings.TrimSpace(text[contentStart:end])
}

// formatSection turns a raw section body into list markup, stripping bullet
// and markdown characters from each line. Empty input stays empty so the
// validation gate can see it.
func formatSection(text string) string {
	if text == "" || text == Placeholder {
		return text
	}

	var items []string
	for _, line := range strings.Split(text, "\n") {
		cleaned := cleanLine(line)
		if cleaned == "" {
			continue
		}
		items = append(items, cleaned)
	}
	if len(items) == 0 {
		return ""
	}
	return renderList(items)
}

// cleanLine strips list markup (bullets, numbering) and markdown emphasis.
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "0123456789.-•* \t")
	line = strings.ReplaceAll(line, "***", "")
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "*", "")
	return strings.TrimSpace(line)
}

// renderList renders items as the markup the presentation layer expects.
func renderList(items []string) string {
	var b strings.Builder
	b.WriteString("<ul class='list-disc pl-5 space-y-2'>")
	for _, item := range items {
		fmt.Fprintf(&b, "<li>%s</li>", item)
	}
	b.WriteString("</ul>")
	return b.String()
}

// wellnessTips splits the wellness section into individual tips, keeps the
// substantive lines, and pads or truncates to exactly WellnessTipCount.
func wellnessTips(text string) []string {
	var tips []string
	for _, line := range strings.Split(text, "\n") {
		cleaned := cleanLine(line)
		if len(cleaned) > minTipLength {
			tips = append(tips, cleaned)
		}
	}

	for _, pad := range padTips {
		if len(tips) >= WellnessTipCount {
			break
		}
		tips = append(tips, pad)
	}
	return tips[:WellnessTipCount]
}
