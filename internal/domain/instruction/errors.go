package instruction

import "errors"

// ErrUnknownLocale is returned for locales without a catalog.
var ErrUnknownLocale = errors.New("unknown locale")
