package action

import "strings"

// Language is a translation target.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Languages is the picker's list, in display order.
var Languages = []Language{
	{Code: "pt-BR", Name: "Brazilian Portuguese"},
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "ja", Name: "Japanese"},
	{Code: "zh-CN", Name: "Chinese (Simplified)"},
	{Code: "it", Name: "Italian"},
	{Code: "ru", Name: "Russian"},
	{Code: "ko", Name: "Korean"},
}

// DefaultLanguage is preselected until the user picks something else.
var DefaultLanguage = Languages[0]

// LookupLanguage finds a language by code or display name, ignoring case.
func LookupLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, l := range Languages {
		if strings.EqualFold(l.Code, s) || strings.EqualFold(l.Name, s) {
			return l, true
		}
	}
	return Language{}, false
}
