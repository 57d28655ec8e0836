// Package catalog holds the static list of practice problems seeded into the
// leetcode_problems table.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/justsurfingit/job-application-tracker/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed problems.yaml
var problemsYAML []byte

type entry struct {
	Title       string `yaml:"title"`
	Difficulty  string `yaml:"difficulty"`
	Category    string `yaml:"category"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	Solution    string `yaml:"solution"`
}

// Problems parses the embedded catalog.
func Problems() ([]models.LeetCodeProblem, error) {
	return parse(problemsYAML)
}

func parse(data []byte) ([]models.LeetCodeProblem, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	problems := make([]models.LeetCodeProblem, 0, len(entries))
	for i, e := range entries {
		if e.Title == "" || e.Link == "" || e.Category == "" {
			return nil, fmt.Errorf("catalog entry %d: title, category and link are required", i)
		}
		if seen[e.Title] {
			return nil, fmt.Errorf("catalog entry %d: duplicate title %q", i, e.Title)
		}
		seen[e.Title] = true

		difficulty := models.Difficulty(e.Difficulty)
		switch difficulty {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		default:
			return nil, fmt.Errorf("catalog entry %q: unknown difficulty %q", e.Title, e.Difficulty)
		}

		p := models.LeetCodeProblem{
			Title:      e.Title,
			Difficulty: difficulty,
			Category:   e.Category,
			Link:       e.Link,
		}
		if e.Description != "" {
			p.Description = &e.Description
		}
		if e.Solution != "" {
			p.Solution = &e.Solution
		}
		problems = append(problems, p)
	}
	return problems, nil
}
