package tasksvc

import "strings"

// ValidationError describes the first failing constraint of a payload.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Normalized returns a copy with the string fields trimmed, matching how
// they are stored.
func (t NewTask) Normalized() NewTask {
	out := t
	out.Title = strings.TrimSpace(t.Title)
	out.Description = strings.TrimSpace(t.Description)
	out.Category = strings.TrimSpace(t.Category)
	return out
}

func (t TaskUpdate) Normalized() TaskUpdate {
	out := t
	if t.Title != nil {
		title := strings.TrimSpace(*t.Title)
		out.Title = &title
	}
	if t.Description != nil {
		description := strings.TrimSpace(*t.Description)
		out.Description = &description
	}
	if t.Category != nil {
		category := strings.TrimSpace(*t.Category)
		out.Category = &category
	}
	return out
}

// ValidateNewTask checks a creation payload. Only the title is mandatory.
func ValidateNewTask(t NewTask) error {
	if t.Title == "" {
		return ValidationError("title is required")
	}
	return nil
}

// ValidateTaskUpdate checks a partial update. At least one field must be
// present and a supplied title must not be blank.
func ValidateTaskUpdate(t TaskUpdate) error {
	if t.Title == nil && t.Description == nil && t.DueDate == nil && t.IsComplete == nil && t.Category == nil {
		return ValidationError("update requires at least one field")
	}
	if t.Title != nil && *t.Title == "" {
		return ValidationError("title must not be empty")
	}
	return nil
}
