package validator

import (
	"fmt"
	"mime"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minEmailLength       = 3
	maxEmailLength       = 255
	minPasswordLength    = 8
	maxPasswordLength    = 72
	maxRecipeTitleLen    = 100
	maxIngredientNameLen = 255
	maxDisplayNameLen    = 100
	maxAboutLen          = 1000
	maxAssetLabelLen     = 64
	maxContentTypeLen    = 255
	maxServings          = 1000
	maxQueryLen          = 100
	asciiControlStart    = 32
	asciiDelete          = 127

	errEmailEmptyFmt           = "email cannot be empty"
	errEmailLengthFmt          = "email must be between %d and %d characters"
	errEmailInvalidFmt         = "invalid email format"
	errPasswordMinLengthFmt    = "password must be at least %d characters"
	errPasswordMaxLengthFmt    = "password must not exceed %d characters"
	errRecipeTitleEmptyFmt     = "title is required"
	errRecipeTitleMaxLengthFmt = "title must not exceed %d characters"
	errMainIngredientEmptyFmt  = "main ingredient is required"
	errIngredientNameLengthFmt = "ingredient name must not exceed %d characters"
	errControlCharsFmt         = "%s cannot contain control characters"
	errServingsRangeFmt        = "servings must be between 0 and %d"
	errDisplayNameMaxLengthFmt = "name must not exceed %d characters"
	errAboutMaxLengthFmt       = "about must not exceed %d characters"
	errAssetLabelEmptyFmt      = "Label value is missing"
	errAssetLabelMaxLengthFmt  = "label must not exceed %d characters"
	errContentTypeMaxLengthFmt = "content type must not exceed %d characters"
	errContentTypeInvalidFmt   = "invalid content type"
	errContentTypeNotImageFmt  = "content type must be an image"
	errSearchQueryEmptyFmt     = "search query cannot be empty"
	errSearchQueryMaxLengthFmt = "search query must not exceed %d characters"
	fieldTitle                 = "title"
	fieldMainIngredient        = "main ingredient"
	fieldAssetLabel            = "label"
	contentTypeImagePrefix     = "image/"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

// Password bounds the length; bcrypt ignores everything past 72 bytes.
func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func RecipeTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf(errRecipeTitleEmptyFmt)
	}

	if utf8.RuneCountInString(title) > maxRecipeTitleLen {
		return fmt.Errorf(errRecipeTitleMaxLengthFmt, maxRecipeTitleLen)
	}

	return noControlChars(fieldTitle, title)
}

func MainIngredient(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf(errMainIngredientEmptyFmt)
	}

	if utf8.RuneCountInString(name) > maxIngredientNameLen {
		return fmt.Errorf(errIngredientNameLengthFmt, maxIngredientNameLen)
	}

	return noControlChars(fieldMainIngredient, name)
}

func Servings(n int) error {
	if n < 0 || n > maxServings {
		return fmt.Errorf(errServingsRangeFmt, maxServings)
	}
	return nil
}

func DisplayName(name string) error {
	if utf8.RuneCountInString(name) > maxDisplayNameLen {
		return fmt.Errorf(errDisplayNameMaxLengthFmt, maxDisplayNameLen)
	}
	return nil
}

func About(about string) error {
	if utf8.RuneCountInString(about) > maxAboutLen {
		return fmt.Errorf(errAboutMaxLengthFmt, maxAboutLen)
	}
	return nil
}

func AssetLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf(errAssetLabelEmptyFmt)
	}

	if utf8.RuneCountInString(label) > maxAssetLabelLen {
		return fmt.Errorf(errAssetLabelMaxLengthFmt, maxAssetLabelLen)
	}

	return noControlChars(fieldAssetLabel, label)
}

func SearchQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return fmt.Errorf(errSearchQueryEmptyFmt)
	}

	if utf8.RuneCountInString(q) > maxQueryLen {
		return fmt.Errorf(errSearchQueryMaxLengthFmt, maxQueryLen)
	}

	return nil
}

// ImageContentType accepts only image/* media types.
func ImageContentType(contentType string) error {
	if len(contentType) > maxContentTypeLen {
		return fmt.Errorf(errContentTypeMaxLengthFmt, maxContentTypeLen)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf(errContentTypeInvalidFmt)
	}

	if !strings.HasPrefix(mediaType, contentTypeImagePrefix) {
		return fmt.Errorf(errContentTypeNotImageFmt)
	}

	return nil
}

func noControlChars(field, value string) error {
	for _, char := range value {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errControlCharsFmt, field)
		}
	}
	return nil
}
