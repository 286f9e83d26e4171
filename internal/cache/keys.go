// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

// Translation cache keys. One key shape per read query.
//
//	tr:id:{id}
//	tr:pair:{element}:{language}
//	tr:element:{element}:{all|active}
//	tr:language:{language}:{all|active}
const keyNamespace = "tr:"

// TranslationKey is the key of a translation fetched by ID.
func TranslationKey(id string) string {
	return keyNamespace + "id:" + id
}

// PairKey is the key of a translation fetched by (element, language).
func PairKey(contentElementID, languageID string) string {
	return keyNamespace + "pair:" + contentElementID + ":" + languageID
}

// ElementListKey is the key of the translations of one content element.
func ElementListKey(contentElementID string, activeOnly bool) string {
	return keyNamespace + "element:" + contentElementID + ":" + scope(activeOnly)
}

// LanguageListKey is the key of the translations of one language.
func LanguageListKey(languageID string, activeOnly bool) string {
	return keyNamespace + "language:" + languageID + ":" + scope(activeOnly)
}

// TranslationPattern matches every translation cache key.
const TranslationPattern = keyNamespace + "*"

func scope(activeOnly bool) string {
	if activeOnly {
		return "active"
	}
	return "all"
}

// Dependency tags.
func ElementTag(id string) string     { return "element:" + id }
func LanguageTag(id string) string    { return "language:" + id }
func TranslationTag(id string) string { return "translation:" + id }

// Pair is a (content element, language) slot holding at most one translation.
type Pair struct {
	ContentElementID string
	LanguageID       string
}

// Dependencies is a set of entity IDs whose cached reads must be dropped.
type Dependencies struct {
	ContentElementIDs []string
	LanguageIDs       []string
	TranslationIDs    []string
	Pairs             []Pair
}

// Add records ids, skipping empty strings. An element and a language given
// together are also recorded as a pair.
func (d *Dependencies) Add(contentElementID, languageID, translationID string) {
	if contentElementID != "" {
		d.ContentElementIDs = append(d.ContentElementIDs, contentElementID)
	}
	if languageID != "" {
		d.LanguageIDs = append(d.LanguageIDs, languageID)
	}
	if contentElementID != "" && languageID != "" {
		d.Pairs = append(d.Pairs, Pair{ContentElementID: contentElementID, LanguageID: languageID})
	}
	if translationID != "" {
		d.TranslationIDs = append(d.TranslationIDs, translationID)
	}
}

// Empty reports whether no IDs were recorded.
func (d Dependencies) Empty() bool {
	return len(d.ContentElementIDs) == 0 && len(d.LanguageIDs) == 0 && len(d.TranslationIDs) == 0
}

// Tags returns the distinct tags of all recorded IDs.
func (d Dependencies) Tags() []string {
	seen := make(map[string]struct{})
	var tags []string
	add := func(tag string) {
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	for _, id := range d.ContentElementIDs {
		add(ElementTag(id))
	}
	for _, id := range d.LanguageIDs {
		add(LanguageTag(id))
	}
	for _, id := range d.TranslationIDs {
		add(TranslationTag(id))
	}
	return tags
}
