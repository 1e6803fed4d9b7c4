package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"project-tracker/domain/ports"
)

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "activity.task.toggled", SubjectFor(ports.EventTaskToggled))
	assert.Equal(t, "activity.project.created", SubjectFor(" project.created "))
}
