package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pb2jamz/Signal-Sorter/models"
)

func TestBuildPromptClassify(t *testing.T) {
	profile := models.Profile{
		Name:       "Dana",
		Role:       "Engineering manager",
		Priorities: "Ship v2",
	}
	active := []models.Item{
		item("Ship release", models.ClassSignal),
		item("File expenses", models.ClassNecessary),
	}

	prompt := BuildPrompt(profile, active, nil, ModeClassify)

	assert.Contains(t, prompt, "USER CONTEXT:")
	assert.Contains(t, prompt, "- Name: Dana")
	assert.Contains(t, prompt, "- Priorities: Ship v2")
	assert.NotContains(t, prompt, "Workday starts", "empty profile fields are omitted")

	assert.Contains(t, prompt, "- [SIGNAL] Ship release")
	assert.Contains(t, prompt, "- [NECESSARY] File expenses")

	assert.Contains(t, prompt, "```json")
	assert.Contains(t, prompt, `"classification"`)
	assert.Contains(t, prompt, "Top signal:")
}

func TestBuildPromptEmptyState(t *testing.T) {
	prompt := BuildPrompt(models.Profile{}, nil, nil, ModeClassify)

	assert.NotContains(t, prompt, "USER CONTEXT:", "empty profile omits the context block")
	assert.Contains(t, prompt, "- none yet")
}

func TestBuildPromptReprioritize(t *testing.T) {
	completed := []models.Item{
		item("Task 1", models.ClassSignal),
		item("Task 2", models.ClassSignal),
		item("Task 3", models.ClassNecessary),
		item("Task 4", models.ClassNoise),
		item("Task 5", models.ClassSignal),
		item("Task 6", models.ClassNecessary),
	}

	prompt := BuildPrompt(models.Profile{}, []models.Item{item("Ship release", models.ClassSignal)}, completed, ModeReprioritize)

	assert.Contains(t, prompt, "RECENTLY COMPLETED")
	assert.Contains(t, prompt, "Task 5")
	assert.NotContains(t, prompt, "Task 6", "only the five most recent completions are included")

	assert.NotContains(t, prompt, "```json", "reprioritize never asks for structured output")
	assert.Contains(t, prompt, "Do NOT create new items")
}

func TestBuildPromptIsPure(t *testing.T) {
	profile := models.Profile{Name: "Dana"}
	active := []models.Item{item("Ship release", models.ClassSignal)}

	first := BuildPrompt(profile, active, nil, ModeClassify)
	second := BuildPrompt(profile, active, nil, ModeClassify)
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "You are Signal Sorter"))
}
