package workspace

import (
	"codecourse/internal/domain/model"
	"fmt"
	"sync"
)

type Tab string

const (
	TabMain  Tab = "main"
	TabTests Tab = "tests"
)

// Filenames returns the labels of the main and tests tabs for a language.
func Filenames(language string) (mainFile, testsFile string) {
	lang := model.LookupLanguage(model.LanguageOrDefault(language))
	return lang.MainFile, lang.TestsFile
}

// Editor tracks the buffer being edited, the visible tab and the output of
// the last run for one course's exercises.
type Editor struct {
	mu        sync.Mutex
	exercises []model.Exercise
	index     int
	buffer    string
	tab       Tab
	output    string
}

func NewEditor(exercises []model.Exercise) *Editor {
	e := &Editor{exercises: exercises, tab: TabMain}
	if len(exercises) > 0 {
		e.buffer = exercises[0].InitialCode
	}
	return e
}

func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.exercises)
}

// Current returns the selected exercise, if there is one.
func (e *Editor) Current() (model.Exercise, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.exercises) == 0 {
		return model.Exercise{}, false
	}
	return e.exercises[e.index], true
}

func (e *Editor) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Select switches exercise. The buffer goes back to the new exercise's
// initial code and the output is cleared.
func (e *Editor) Select(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.exercises) {
		return fmt.Errorf("exercise %d out of range (have %d)", index+1, len(e.exercises))
	}
	e.selectLocked(index)
	return nil
}

// Next and Prev stay put at either end.
func (e *Editor) Next() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index+1 < len(e.exercises) {
		e.selectLocked(e.index + 1)
	}
}

func (e *Editor) Prev() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index > 0 {
		e.selectLocked(e.index - 1)
	}
}

func (e *Editor) selectLocked(index int) {
	e.index = index
	e.buffer = e.exercises[index].InitialCode
	e.output = ""
}

// Reset restores the current exercise's initial code.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.exercises) == 0 {
		e.buffer = ""
		return
	}
	e.buffer = e.exercises[e.index].InitialCode
}

func (e *Editor) Buffer() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer
}

func (e *Editor) SetBuffer(code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buffer = code
}

func (e *Editor) Tab() Tab {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tab
}

func (e *Editor) SetTab(tab Tab) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tab == TabTests {
		e.tab = TabTests
		return
	}
	e.tab = TabMain
}

// Visible is the text of the active tab. The tests tab is read-only.
func (e *Editor) Visible() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tab == TabTests && len(e.exercises) > 0 {
		return e.exercises[e.index].TestCode
	}
	return e.buffer
}

// TabLabels names the two tabs after the current exercise's language.
func (e *Editor) TabLabels() (mainFile, testsFile string) {
	ex, _ := e.Current()
	return Filenames(ex.Language)
}

func (e *Editor) Output() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.output
}

func (e *Editor) SetOutput(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.output = text
}
