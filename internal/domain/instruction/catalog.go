package instruction

import (
	"fmt"
	"strings"

	"github.com/okian/diveplan/internal/domain/failure"
)

// Supported locales.
const (
	LocaleEnglish = "en"
	LocaleRussian = "ru"
)

// Catalog holds the user-facing phrases of one locale. Failure templates
// take the failure's contextual value as their only formatting verb, if any.
type Catalog struct {
	Locale       string
	Instructions map[Code]string
	Failures     map[failure.Kind]string
}

// English is the default catalog.
func English() Catalog {
	return Catalog{
		Locale: LocaleEnglish,
		Instructions: map[Code]string{
			Unsupervised:       "unsupervised pass",
			FullRoundTrip:      "full-depth round trip",
			SingleDescent:      "single-depth descent",
			DepthAndReturn:     "depth-and-return",
			ThreePracticeDives: "3 practice dives + depth-and-return",
			TwoPracticeDives:   "2 practice dives + depth-and-return",
		},
		Failures: map[failure.Kind]string{
			failure.KindInsufficientEscorts:     "Cannot distribute: find more escorts",
			failure.KindGroupTooSmall:           "Cannot distribute: this is not a group swim, just help with a single dive",
			failure.KindNoOlderEscortAvailable:  "Cannot distribute! Find someone older than %d moons",
			failure.KindNoSlotForLeftoverEscort: "Cannot distribute: no escort or ward left for the swimmer named %s",
			failure.KindInvalidSkillLevel:       "Cannot distribute: unknown skill level %d",
		},
	}
}

// Russian carries the wording the session leads are used to.
func Russian() Catalog {
	return Catalog{
		Locale: LocaleRussian,
		Instructions: map[Code]string{
			Unsupervised:       "сам",
			FullRoundTrip:      "до дна и обратно",
			SingleDescent:      "до дна",
			DepthAndReturn:     "до глубины и обратно",
			ThreePracticeDives: "3 нырка, до глубины и обратно",
			TwoPracticeDives:   "2 нырка, до глубины и обратно",
		},
		Failures: map[failure.Kind]string{
			failure.KindInsufficientEscorts:     "Невозможно распределить: найдите больше сопровождающих",
			failure.KindGroupTooSmall:           "Невозможно распределить: это не заплыв, а помощь с нырком",
			failure.KindNoOlderEscortAvailable:  "Невозможно распределить! Найдите кого-то старше %d лун",
			failure.KindNoSlotForLeftoverEscort: "Невозможно распределить: не хватает сопровождающего/подопечного для игрока по имени %s",
			failure.KindInvalidSkillLevel:       "Невозможно распределить: неизвестный уровень навыка %d",
		},
	}
}

// ForLocale returns the catalog for locale.
func ForLocale(locale string) (Catalog, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", LocaleEnglish:
		return English(), nil
	case LocaleRussian:
		return Russian(), nil
	default:
		return Catalog{}, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
}

// Describe renders the diagnostic text for f.
func (c Catalog) Describe(f *failure.Failure) string {
	tmpl, ok := c.Failures[f.Kind]
	if !ok {
		return f.Error()
	}
	if v := f.Value(); v != nil {
		return fmt.Sprintf(tmpl, v)
	}
	return tmpl
}
