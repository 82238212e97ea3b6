package i18n

import "errors"

var (
	ErrEmptyLanguage = errors.New("i18n: language cannot be empty")
	ErrInvalidFile   = errors.New("i18n: invalid translation file")
	ErrNoCatalog     = errors.New("i18n: no translations loaded for default language")
)
