package services

import (
	"strings"

	"github.com/sahilchouksey/syllabus-planner/model"
)

// FlattenItems expands the nested extraction output into a flat task list.
// A hard_deadline item yields one task per contained deadline; a
// class_session yields one task per prep/mandatory reading plus one per
// embedded deadline. Titles and dates are copied verbatim; blank reading
// descriptions are synthesized from the session title.
func FlattenItems(items []model.RawExtractedItem) []model.FlatTask {
	var tasks []model.FlatTask

	for _, item := range items {
		switch item.Kind {
		case model.ItemKindHardDeadline:
			for _, dl := range item.HardDeadlines {
				tasks = append(tasks, deadlineToTask(item.DateString, dl))
			}

		case model.ItemKindClassSession:
			for _, reading := range item.PrepTasks {
				task, ok := readingToTask(item.DateString, item.SessionTitle, reading, "Preparatory reading", "reading_preparatory")
				if ok {
					tasks = append(tasks, task)
				}
			}
			for _, reading := range item.MandatoryTasks {
				task, ok := readingToTask(item.DateString, item.SessionTitle, reading, "Mandatory reading", "reading_mandatory")
				if ok {
					tasks = append(tasks, task)
				}
			}
			for _, dl := range item.HardDeadlines {
				tasks = append(tasks, deadlineToTask(item.DateString, dl))
			}
		}
		// ItemKindIgnore contributes nothing
	}

	return tasks
}

func deadlineToTask(date string, dl model.DeadlineDetail) model.FlatTask {
	taskType := dl.Type
	if taskType == "" {
		taskType = model.TaskTypeAssignment
	}
	return model.FlatTask{
		Date:           date,
		Title:          dl.Title,
		Type:           taskType,
		Description:    dl.Description,
		AssessmentName: dl.AssessmentName,
		IsOptional:     dl.IsOptional,
		Conditions:     dl.Conditions,
	}
}

func readingToTask(date, sessionTitle string, reading model.ReadingTask, kindLabel, defaultReadingType string) (model.FlatTask, bool) {
	title := strings.TrimSpace(reading.Title)
	if title == "" {
		return model.FlatTask{}, false
	}

	description := strings.TrimSpace(reading.Description)
	if description == "" {
		if sessionTitle != "" {
			description = kindLabel + " for " + sessionTitle
		} else {
			description = kindLabel
		}
	}

	readingType := reading.Type
	if readingType == "" {
		readingType = defaultReadingType
	}

	return model.FlatTask{
		Date:        date,
		Title:       title,
		Type:        model.TaskTypeReading,
		Description: description,
		ReadingType: readingType,
	}, true
}
