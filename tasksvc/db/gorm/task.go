package gorm

import (
	"errors"

	"github.com/taskpad/backend/tasksvc"
	libgorm "gorm.io/gorm"
)

type taskRepository struct {
	db *libgorm.DB
}

func NewTaskRepository(db *libgorm.DB) tasksvc.TaskRepository {
	return &taskRepository{db}
}

func (r *taskRepository) Create(task *tasksvc.Task) error {
	return r.db.Create(task).Error
}

func (r *taskRepository) Find(id uint64) (tasksvc.Task, error) {
	var task tasksvc.Task
	result := r.db.First(&task, id)
	if errors.Is(result.Error, libgorm.ErrRecordNotFound) {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}

	return task, result.Error
}

func (r *taskRepository) FindAllByOwner(userID uint64) ([]tasksvc.Task, error) {
	var tasks []tasksvc.Task
	result := r.db.Where("user_id = ?", userID).Find(&tasks)

	return tasks, result.Error
}

func (r *taskRepository) Update(id uint64, u tasksvc.TaskUpdate) (tasksvc.Task, error) {
	task, err := r.Find(id)
	if err != nil {
		return tasksvc.Task{}, err
	}

	fields := map[string]interface{}{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.DueDate != nil {
		fields["due_date"] = *u.DueDate
	}
	if u.IsComplete != nil {
		fields["is_complete"] = *u.IsComplete
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}

	result := r.db.Model(&task).Updates(fields)
	if result.Error != nil {
		return tasksvc.Task{}, result.Error
	}

	return task, nil
}

func (r *taskRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&tasksvc.Task{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, tasksvc.ErrTaskNotFound
	}

	return true, nil
}

// Complete marks a task done. Completing an already-complete task is a
// no-op that still succeeds.
func (r *taskRepository) Complete(id uint64) (tasksvc.Task, error) {
	task, err := r.Find(id)
	if err != nil {
		return tasksvc.Task{}, err
	}

	result := r.db.Model(&task).Update("is_complete", true)
	if result.Error != nil {
		return tasksvc.Task{}, result.Error
	}

	return task, nil
}

func (r *taskRepository) DeleteAllByOwner(userID uint64) error {
	return r.db.Where("user_id = ?", userID).Delete(&tasksvc.Task{}).Error
}
