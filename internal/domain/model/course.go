package model

import (
	"time"
)

type Course struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	IsPublished bool       `json:"is_published"`
	Exercises   []Exercise `json:"exercises"` // Ordered by Order, then ID
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PassingRule string

const (
	PassingRuleTestsPass PassingRule = "tests_pass"
	PassingRuleAIEval    PassingRule = "ai_eval"
	PassingRuleManual    PassingRule = "manual"
)

func (r PassingRule) Valid() bool {
	switch r {
	case PassingRuleTestsPass, PassingRuleAIEval, PassingRuleManual:
		return true
	}
	return false
}

type Exercise struct {
	ID          int64       `json:"id"`
	CourseID    int64       `json:"course_id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"` // Markdown
	InitialCode string      `json:"initial_code"`
	TestCode    string      `json:"test_code"` // Hidden verification code appended on run
	Language    string      `json:"language"`
	PassingRule PassingRule `json:"passing_rule"`
	Order       int         `json:"order"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
