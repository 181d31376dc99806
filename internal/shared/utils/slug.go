package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug chuyển title thành URL-safe slug
// "How to Train Your Dragon" → "how-to-train-your-dragon"
func GenerateSlug(input string) string {
	// Convert diacritics về ASCII trước khi lọc ký tự
	ascii := RemoveDiacritics(input)

	lower := strings.ToLower(ascii)
	hyphenated := strings.ReplaceAll(lower, " ", "-")

	// Chỉ giữ a-z, 0-9, hyphens
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")

	// Collapse hyphen runs và trim hai đầu
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// AppendSlugSuffix thêm short random suffix để resolve slug collision.
// Slug là globally unique nên hai bài cùng title cần suffix khác nhau.
func AppendSlugSuffix(slug string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

// RemoveDiacritics map các ký tự có dấu về base character
// (tất cả các tone của "a" => "a")
func RemoveDiacritics(input string) string {
	mappings := map[rune]rune{
		'á': 'a', 'à': 'a', 'ả': 'a', 'ã': 'a', 'ạ': 'a',
		'ă': 'a', 'ắ': 'a', 'ằ': 'a', 'ẳ': 'a', 'ẵ': 'a', 'ặ': 'a',
		'â': 'a', 'ấ': 'a', 'ầ': 'a', 'ẩ': 'a', 'ẫ': 'a', 'ậ': 'a',
		'é': 'e', 'è': 'e', 'ẻ': 'e', 'ẽ': 'e', 'ẹ': 'e',
		'ê': 'e', 'ế': 'e', 'ề': 'e', 'ể': 'e', 'ễ': 'e', 'ệ': 'e',
		'í': 'i', 'ì': 'i', 'ỉ': 'i', 'ĩ': 'i', 'ị': 'i',
		'ó': 'o', 'ò': 'o', 'ỏ': 'o', 'õ': 'o', 'ọ': 'o',
		'ô': 'o', 'ố': 'o', 'ồ': 'o', 'ổ': 'o', 'ỗ': 'o', 'ộ': 'o',
		'ơ': 'o', 'ớ': 'o', 'ờ': 'o', 'ở': 'o', 'ỡ': 'o', 'ợ': 'o',
		'ú': 'u', 'ù': 'u', 'ủ': 'u', 'ũ': 'u', 'ụ': 'u',
		'ư': 'u', 'ứ': 'u', 'ừ': 'u', 'ử': 'u', 'ữ': 'u', 'ự': 'u',
		'ý': 'y', 'ỳ': 'y', 'ỷ': 'y', 'ỹ': 'y', 'ỵ': 'y',
		'đ': 'd',
	}

	// Lowercase trước để map chỉ cần lowercase keys
	input = strings.ToLower(input)

	result := make([]rune, 0, len(input))
	for _, r := range input {
		if replacement, ok := mappings[r]; ok {
			result = append(result, replacement)
		} else {
			result = append(result, r)
		}
	}

	return string(result)
}
