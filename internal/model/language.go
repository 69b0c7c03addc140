package model

import "strings"

// Language is one of the summary languages the backend can translate into
type Language struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Voice string `json:"voice"`
}

// Languages lists the supported target languages, English first
var Languages = []Language{
	{Name: "English", Code: "en", Voice: "en-US"},
	{Name: "Hindi", Code: "hi", Voice: "hi-IN"},
	{Name: "Tamil", Code: "ta", Voice: "ta-IN"},
	{Name: "Marathi", Code: "mr", Voice: "mr-IN"},
}

// DefaultLanguage is used when no preference or request language is given
var DefaultLanguage = Languages[0]

// LookupLanguage finds a language by name or code, case-insensitively
func LookupLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, lang := range Languages {
		if strings.EqualFold(lang.Name, s) || strings.EqualFold(lang.Code, s) {
			return lang, true
		}
	}
	return Language{}, false
}

// NormalizeLanguage returns the matching language or English
func NormalizeLanguage(s string) Language {
	if lang, ok := LookupLanguage(s); ok {
		return lang
	}
	return DefaultLanguage
}
