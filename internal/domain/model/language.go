package model

import "strings"

const (
	LanguagePython = "python"
	LanguageRust   = "rust"
)

// Language describes how a source file for one language is named and run
// inside the sandbox.
type Language struct {
	Slug       string
	MainFile   string
	TestsFile  string
	RunCommand []string
}

var (
	python = Language{
		Slug:       LanguagePython,
		MainFile:   "main.py",
		TestsFile:  "tests.py",
		RunCommand: []string{"python", "main.py"},
	}
	rust = Language{
		Slug:       LanguageRust,
		MainFile:   "main.rs",
		TestsFile:  "tests.rs",
		RunCommand: []string{"sh", "-c", "rustc main.rs && ./main"},
	}
)

// LookupLanguage resolves a language slug. Anything that is not exactly rust runs as
// python.
func LookupLanguage(slug string) Language {
	if slug == LanguageRust {
		return rust
	}
	return python
}

// LanguageOrDefault keeps the stored value as given and fills in python when
// it is blank.
func LanguageOrDefault(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return LanguagePython
	}
	return slug
}
