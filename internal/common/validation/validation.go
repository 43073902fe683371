package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxPrizeLength = 200

	MinWinnersCount = 1
	MaxWinnersCount = 50
)

// Thumbnail URLs must end in an image extension (query string allowed).
var imageExtensionRegex = regexp.MustCompile(`(?i)\.(jpeg|jpg|gif|png|webp)(\?.*)?$`)

// ValidatePrize checks the free-text prize field.
func ValidatePrize(prize string) error {
	prize = strings.TrimSpace(prize)
	if prize == "" {
		return fmt.Errorf("prize cannot be empty")
	}
	if len(prize) > MaxPrizeLength {
		return fmt.Errorf("prize cannot exceed %d characters", MaxPrizeLength)
	}
	return nil
}

// ValidateWinnersCount checks the requested number of winners.
func ValidateWinnersCount(count int) error {
	if count < MinWinnersCount {
		return fmt.Errorf("winners count must be at least %d", MinWinnersCount)
	}
	if count > MaxWinnersCount {
		return fmt.Errorf("winners count cannot exceed %d", MaxWinnersCount)
	}
	return nil
}

// ValidateImageURL accepts URLs with an allow-listed extension or from one of
// the trusted domains.
func ValidateImageURL(url string, trustedDomains []string) error {
	if url == "" {
		return fmt.Errorf("image URL cannot be empty")
	}
	if imageExtensionRegex.MatchString(url) {
		return nil
	}
	for _, domain := range trustedDomains {
		if domain != "" && strings.Contains(url, domain) {
			return nil
		}
	}
	return fmt.Errorf("image URL must end in .jpeg/.jpg/.gif/.png/.webp or come from a trusted domain")
}

// IsValidImageURL is the boolean form of ValidateImageURL.
func IsValidImageURL(url string, trustedDomains []string) bool {
	return ValidateImageURL(url, trustedDomains) == nil
}
