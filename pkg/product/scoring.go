package product

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	intelCoreRe  = regexp.MustCompile(`\b(?:core\s*)?i([3579])\b`)
	intelUltraRe = regexp.MustCompile(`\bultra\s*([579])\b`)
	ryzenRe      = regexp.MustCompile(`\bryzen\s*(?:ai\s*)?([3579])\b`)
	appleRe      = regexp.MustCompile(`\bm([1-9])\b(?:\s*(pro|max|ultra))?`)
)

// ProcessorScore maps a processor model onto an ordinal performance tier.
// Higher is better; unrecognized models score 0.
func ProcessorScore(model string) float64 {
	m := strings.ToLower(strings.TrimSpace(model))
	if m == "" {
		return 0
	}

	switch {
	case strings.Contains(m, "celeron"), strings.Contains(m, "athlon"),
		strings.Contains(m, "mediatek"), strings.Contains(m, "n100"), strings.Contains(m, "n200"):
		return 1
	case strings.Contains(m, "pentium"):
		return 1.5
	}

	if match := intelUltraRe.FindStringSubmatch(m); match != nil {
		n, _ := strconv.Atoi(match[1])
		return float64(n) + 1
	}
	if match := intelCoreRe.FindStringSubmatch(m); match != nil {
		n, _ := strconv.Atoi(match[1])
		return float64(n)
	}
	if match := ryzenRe.FindStringSubmatch(m); match != nil {
		n, _ := strconv.Atoi(match[1])
		return float64(n)
	}
	if match := appleRe.FindStringSubmatch(m); match != nil {
		gen, _ := strconv.Atoi(match[1])
		score := 6 + float64(gen)*0.5
		switch match[2] {
		case "pro":
			score += 1.5
		case "max":
			score += 2.5
		case "ultra":
			score += 3.5
		}
		return score
	}
	if strings.Contains(m, "snapdragon") {
		return 5
	}
	return 0
}

// ResolutionTier maps a resolution label or "WxH" string onto an ordinal tier.
// Higher is better; unrecognized resolutions score 0.
func ResolutionTier(resolution string) float64 {
	r := strings.ToUpper(strings.TrimSpace(resolution))
	if r == "" {
		return 0
	}

	if w, h, ok := parseDimensions(r); ok {
		return tierForPixels(w, h)
	}

	switch r {
	case "HD", "720P":
		return 1
	case "HD+":
		return 2
	case "FHD", "FULL HD", "1080P":
		return 3
	case "FHD+", "WUXGA":
		return 4
	case "2K", "QHD", "WQHD", "1440P", "2.5K":
		return 5
	case "2.8K", "3K", "QHD+", "RETINA":
		return 6
	case "4K", "UHD", "4K UHD":
		return 7
	}
	return 0
}

func parseDimensions(r string) (int, int, bool) {
	parts := strings.FieldsFunc(r, func(c rune) bool { return c == 'X' || c == '×' || c == ' ' })
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}

func tierForPixels(w, h int) float64 {
	if h > w {
		w, h = h, w
	}
	switch {
	case w >= 3840:
		return 7
	case w >= 2800:
		return 6
	case w >= 2560:
		return 5
	case w >= 1920 && h >= 1200:
		return 4
	case w >= 1920:
		return 3
	case w >= 1600:
		return 2
	case w >= 1280:
		return 1
	}
	return 0
}
